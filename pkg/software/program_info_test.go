// SPDX-License-Identifier: Apache-2.0

package software

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgramInfo_Getters(t *testing.T) {
	req := require.New(t)
	p := programInfo{
		path:       "/path",
		mode:       0777,
		version:    "0.0.1",
		sha256Hash: fmt.Sprintf("%x", sha256.Sum256([]byte("test"))),
	}

	req.Equal(p.mode, p.GetFileMode())
	req.Equal(p.sha256Hash, p.GetHash())
	req.Equal(p.path, p.GetPath())
	req.Equal(p.version, p.GetVersion())
}

func TestProgramInfo_IsExecAll(t *testing.T) {
	req := require.New(t)
	p := programInfo{path: "/path", mode: 0111}
	req.True(p.IsExecAll())

	p = programInfo{path: "/path", mode: 0110}
	req.False(p.IsExecAll())
}

func TestProgramInfo_IsExecAny(t *testing.T) {
	req := require.New(t)
	p := programInfo{path: "/path", mode: 0144}
	req.True(p.IsExecAny())

	p = programInfo{path: "/path", mode: 0444}
	req.False(p.IsExecAny())
}

func TestProgramInfo_IsExecGroup(t *testing.T) {
	req := require.New(t)
	p := programInfo{path: "/path", mode: 0010}
	req.True(p.IsExecGroup())

	p = programInfo{path: "/path", mode: 0444}
	req.False(p.IsExecGroup())
}

func TestProgramInfo_IsExecOwner(t *testing.T) {
	req := require.New(t)
	p := programInfo{path: "/path", mode: 0100}
	req.True(p.IsExecOwner())

	p = programInfo{path: "/path", mode: 0444}
	req.False(p.IsExecOwner())
}
