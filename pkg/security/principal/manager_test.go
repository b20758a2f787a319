// SPDX-License-Identifier: Apache-2.0

package principal

import (
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"
)

func TestNewManagerWithProvider(t *testing.T) {
	req := require.New(t)

	manager, err := NewManagerWithProvider(&fakeProvider{})
	req.NoError(err)
	req.NotNil(manager)
	req.IsType(&defaultManager{}, manager)
}

func TestDefaultManager_UserExistsByName(t *testing.T) {
	req := require.New(t)

	manager, err := NewManagerWithProvider(&fakeProvider{})
	req.NoError(err)

	req.True(manager.UserExistsByName("alice"))
	req.True(manager.UserExistsByName("root"))
	req.False(manager.UserExistsByName("mallory"))
}

func TestDefaultManager_GroupExistsByName(t *testing.T) {
	req := require.New(t)

	manager, err := NewManagerWithProvider(&fakeProvider{})
	req.NoError(err)

	req.True(manager.GroupExistsByName("sudo"))
	req.False(manager.GroupExistsByName("wheel"))
}

func TestDefaultManager_LookupUserByName(t *testing.T) {
	req := require.New(t)

	manager, err := NewManagerWithProvider(&fakeProvider{})
	req.NoError(err)

	user, err := manager.LookupUserByName("alice")
	req.NoError(err)
	req.Equal("1000", user.Uid())
	req.Equal("Alice Example", user.DisplayName())
	req.Equal("/home/alice", user.HomeDir())
	req.Equal("/bin/bash", user.Shell())

	_, err = manager.LookupUserByName("mallory")
	req.Error(err)
	req.True(errorx.IsOfType(err, UserNotFoundError))
}

func TestDefaultManager_LookupUserById(t *testing.T) {
	req := require.New(t)

	manager, err := NewManagerWithProvider(&fakeProvider{})
	req.NoError(err)

	user, err := manager.LookupUserById("1001")
	req.NoError(err)
	req.Equal("bob", user.Name())

	_, err = manager.LookupUserById("424242")
	req.Error(err)
	req.True(errorx.IsOfType(err, UserNotFoundError))
}

func TestDefaultManager_LookupGroupById(t *testing.T) {
	req := require.New(t)

	manager, err := NewManagerWithProvider(&fakeProvider{})
	req.NoError(err)

	group, err := manager.LookupGroupById("27")
	req.NoError(err)
	req.Equal("sudo", group.Name())

	_, err = manager.LookupGroupById("9999")
	req.Error(err)
	req.True(errorx.IsOfType(err, GroupNotFoundError))
}

func TestDefaultManager_GroupMembership(t *testing.T) {
	req := require.New(t)

	manager, err := NewManagerWithProvider(&fakeProvider{})
	req.NoError(err)

	group, err := manager.LookupGroupByName("sudo")
	req.NoError(err)
	req.Len(group.Users(), 1)
	req.Equal("alice", group.Users()[0].Name())

	user, err := manager.LookupUserByName("alice")
	req.NoError(err)
	req.NotNil(user.PrimaryGroup())
	req.Equal("alice", user.PrimaryGroup().Name())
}

func TestDefaultManager_LoginUsers(t *testing.T) {
	req := require.New(t)

	manager, err := NewManagerWithProvider(&fakeProvider{})
	req.NoError(err)

	logins, err := manager.LoginUsers()
	req.NoError(err)

	// Only alice and bob qualify: root and the service accounts sit below
	// the login uid range, svc-backup has no interactive shell, and nobody
	// is the placeholder account.
	req.Len(logins, 2)
	req.Equal("alice", logins[0].Name())
	req.Equal("bob", logins[1].Name())
}
