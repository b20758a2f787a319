// SPDX-License-Identifier: Apache-2.0

package software

import (
	"context"
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"
)

const releaseVersionPattern = `([0-9]+)+\.([0-9]+)*\.?([0-9]+)*[-_]?([a-zA-Z0-9\.]+)*`

func TestUnixDetector_GetProgramInfo(t *testing.T) {
	req := require.New(t)
	ud := NewUnixProgramDetector(&nolog)

	var testCases = []struct {
		name            string
		defaultLocation string
		versionPattern  string
		errMsg          string
	}{
		{
			name:            "rsync",
			versionPattern:  releaseVersionPattern,
			defaultLocation: "/usr/local/bin/rsync",
		},
		{
			name:            "rsync",
			versionPattern:  releaseVersionPattern,
			defaultLocation: "/usr/bin/rsync",
		},
		{
			name:            "rsync",
			versionPattern:  releaseVersionPattern,
			defaultLocation: "/invalid", // invalid path should resolve into correct path
		},
		{
			name:            "rsync",
			versionPattern:  releaseVersionPattern,
			defaultLocation: "", // empty path should force it to resolve to the correct path
		},
		{
			name:            "INVALID",
			versionPattern:  releaseVersionPattern,
			defaultLocation: "",
			errMsg:          "was not found on this host",
		},
		{
			name:            "INVALID",
			versionPattern:  releaseVersionPattern,
			defaultLocation: "/invalid",
			errMsg:          "was not found on this host",
		},
		{
			name:            "rsync",
			versionPattern:  "([", // invalid regex should fail
			defaultLocation: "",
			errMsg:          "failed to read version",
		},
	}

	for _, test := range testCases {
		ctx := context.Background()
		info, err := ud.GetProgramInfo(ctx, test.name, test.defaultLocation, VersionQuery{
			Args:    []string{"--version"},
			Pattern: test.versionPattern,
		})
		if test.errMsg != "" {
			req.Error(err)
			req.Contains(err.Error(), test.errMsg)
			req.Nil(info)
		} else {
			req.NoError(err)
			req.NotEmpty(info.GetPath())
			req.NotEmpty(info.GetVersion())
			req.NotEmpty(info.GetHash())
			req.NotEmpty(info.GetFileMode())
			req.True(info.IsExecAll())
		}
	}
}

func TestUnixDetector_DetectExecutablePath(t *testing.T) {
	req := require.New(t)
	ud := NewUnixProgramDetector(nil)

	path, err := ud.DetectExecutablePath("sh")
	req.NoError(err)
	req.NotEmpty(path)

	_, err = ud.DetectExecutablePath("definitely-not-a-real-program")
	req.Error(err)
	req.True(errorx.IsOfType(err, ProgramNotFoundError))
}
