// SPDX-License-Identifier: Apache-2.0

// Package principal provides routines to look up and enumerate the users and
// groups known to the operating system.
//
// Use NewManager() to get an operating system specific implementation.
package principal

// Manager provides lookups over the operating system's user and group
// databases. Results are cached; call Refresh to re-read the databases.
type Manager interface {
	// UserExistsByName provided the username returns true if it exists else false.
	UserExistsByName(userName string) bool
	// GroupExistsByName provided the group name returns true if it exists else false.
	GroupExistsByName(groupName string) bool
	// LookupUserByName provided the username returns the user object or an error. If the user does not exist, an error is returned.
	LookupUserByName(userName string) (User, error)
	// LookupUserById provided the user id returns the user object or an error. If the user does not exist, an error is returned.
	LookupUserById(uid string) (User, error)
	// LookupGroupByName provided the group name returns the group object or an error. If the group does not exist, an error is returned.
	LookupGroupByName(groupName string) (Group, error)
	// LookupGroupById provided the group id returns the group object or an error. If the group does not exist, an error is returned.
	LookupGroupById(gid string) (Group, error)
	// LoginUsers returns the human login accounts on the system: regular
	// users with an interactive shell, excluding system and service
	// accounts. These are the accounts that receive per-user configuration
	// during provisioning.
	LoginUsers() ([]User, error)
	// Refresh refreshes the user and group cache.
	Refresh() error
}

// Provider is an abstraction for user and group principal operations which provides the environment specific logic.
// The default implementation uses the operating system's user and group database.
// All Provider implementations must be thread safe.
type Provider interface {
	// EnumerateUsers queries the underlying operating system registry for all users.
	EnumerateUsers(m Manager) ([]User, error)
	// EnumerateGroups queries the underlying operating system registry for all groups.
	EnumerateGroups(m Manager) ([]Group, error)
}

// User is an operating system agnostic representation of a local or directory service connected user principal.
type User interface {
	// Uid returns the user id.
	Uid() string
	// Name returns the username. This is the name that the user logs in with.
	Name() string
	// DisplayName returns the user's display name.
	DisplayName() string
	// HomeDir returns the user's home directory.
	HomeDir() string
	// Shell returns the user's command interpreter.
	Shell() string
	// PrimaryGroup returns the user's primary group.
	PrimaryGroup() Group
	// Groups returns the user's groups.
	Groups() []Group
	// Validate returns an error if the user is not valid.
	Validate() error
}

// Group is an operating system agnostic representation of a local or directory service connected group principal.
type Group interface {
	// Gid returns the group id.
	Gid() string
	// Name returns the group name.
	Name() string
	// Users returns the users that are members of this group.
	Users() []User
	// Validate returns an error if the group is not valid.
	Validate() error
}
