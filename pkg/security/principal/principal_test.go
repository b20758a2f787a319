// SPDX-License-Identifier: Apache-2.0

package principal

// fakeProvider serves a synthetic user and group database resembling a
// freshly provisioned Debian workstation with two human accounts.
type fakeProvider struct{}

func (p *fakeProvider) EnumerateUsers(m Manager) ([]User, error) {
	users := []*unixUser{
		{name: "root", uid: 0, gid: 0, homeDir: "/root", shell: "/bin/bash"},
		{name: "daemon", uid: 1, gid: 1, homeDir: "/usr/sbin", shell: "/usr/sbin/nologin"},
		{name: "messagebus", uid: 101, gid: 107, homeDir: "/nonexistent", shell: "/usr/sbin/nologin"},
		{name: "alice", uid: 1000, gid: 1000, displayName: "Alice Example", homeDir: "/home/alice", shell: "/bin/bash"},
		{name: "bob", uid: 1001, gid: 1001, homeDir: "/home/bob", shell: "/usr/bin/zsh"},
		{name: "svc-backup", uid: 1002, gid: 1002, homeDir: "/var/lib/backup", shell: "/usr/sbin/nologin"},
		{name: "nobody", uid: 65534, gid: 65534, homeDir: "/nonexistent", shell: "/usr/sbin/nologin"},
	}

	result := make([]User, len(users))
	for i, u := range users {
		u.manager = m
		result[i] = u
	}

	return result, nil
}

func (p *fakeProvider) EnumerateGroups(m Manager) ([]Group, error) {
	groups := []*unixGroup{
		{name: "root", gid: 0},
		{name: "alice", gid: 1000},
		{name: "bob", gid: 1001},
		{name: "sudo", gid: 27, members: []string{"alice"}},
	}

	result := make([]Group, len(groups))
	for i, g := range groups {
		g.manager = m
		result[i] = g
	}

	return result, nil
}
