// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"
)

func TestDetect_MajorMinor(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  string
		shouldErr bool
	}{
		{name: "debian kernel release", input: "6.10.0-3-amd64", expected: "6.10"},
		{name: "lts kernel release", input: "6.1.0-25-amd64", expected: "6.1"},
		{name: "cloud kernel flavour", input: "6.10.4-1-cloud-amd64", expected: "6.10"},
		{name: "plain major minor", input: "46.2", expected: "46.2"},
		{name: "single component", input: "6", shouldErr: true},
		{name: "no leading digits", input: "amd64-6.10", shouldErr: true},
		{name: "empty", input: "", shouldErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := MajorMinor(tc.input)
			if tc.shouldErr {
				require.Error(t, err)
				require.True(t, errorx.IsOfType(err, MalformedVersionError))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}

func TestDetect_Major(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  string
		shouldErr bool
	}{
		{name: "major minor", input: "46.2", expected: "46"},
		{name: "single component", input: "48", expected: "48"},
		{name: "debian revision", input: "48.1-2", expected: "48"},
		{name: "no leading digits", input: "shell", shouldErr: true},
		{name: "empty", input: "", shouldErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Major(tc.input)
			if tc.shouldErr {
				require.Error(t, err)
				require.True(t, errorx.IsOfType(err, MalformedVersionError))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}

func TestDetect_CompareVersionPrefix(t *testing.T) {
	testCases := []struct {
		name      string
		a         string
		b         string
		expected  int
		shouldErr bool
	}{
		{name: "newer minor", a: "6.10", b: "6.9", expected: 1},
		{name: "older minor", a: "6.9", b: "6.10", expected: -1},
		{name: "equal", a: "6.10", b: "6.10", expected: 0},
		{name: "majors only", a: "48", b: "46", expected: 1},
		{name: "unparsable left", a: "kernel", b: "6.10", shouldErr: true},
		{name: "unparsable right", a: "6.10", b: "", shouldErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := CompareVersionPrefix(tc.a, tc.b)
			if tc.shouldErr {
				require.Error(t, err)
				require.True(t, errorx.IsOfType(err, MalformedVersionError))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}
