// SPDX-License-Identifier: Apache-2.0

package debver

import (
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"
)

func TestCache_Compare(t *testing.T) {
	testCases := []struct {
		name      string
		a         string
		b         string
		expected  int
		shouldErr bool
	}{
		{name: "newer upstream", a: "6.10.4-1", b: "6.10.3-2", expected: 1},
		{name: "newer revision", a: "6.10.4-2", b: "6.10.4-1", expected: 1},
		{name: "equal", a: "46.2-1", b: "46.2-1", expected: 0},
		{name: "epoch dominates", a: "1:1.0-1", b: "9.9-1", expected: 1},
		{name: "backport sorts below release", a: "6.10.4-1~bpo12+1", b: "6.10.4-1", expected: -1},
		{name: "older", a: "46.2-1", b: "48.1-1", expected: -1},
		{name: "wide gap still minus one", a: "6.1.0-1", b: "6.12.38-1", expected: -1},
		{name: "wide gap still plus one", a: "48.4-2", b: "40.1-1", expected: 1},
		{name: "unparsable left", a: "not a version", b: "1.0-1", shouldErr: true},
		{name: "empty right", a: "1.0-1", b: "", shouldErr: true},
	}

	cache := NewCache()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := cache.Compare(tc.a, tc.b)
			if tc.shouldErr {
				require.Error(t, err)
				require.True(t, errorx.IsOfType(err, InvalidVersionError))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}

func TestCache_VersionMemoizes(t *testing.T) {
	req := require.New(t)
	cache := NewCache()

	first, err := cache.Version("2:46.2-1")
	req.NoError(err)

	second, err := cache.Version("2:46.2-1")
	req.NoError(err)
	req.Equal(first, second)
	req.Len(cache.parsed, 1)
}

func TestDebver_UpstreamVersion(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  string
		shouldErr bool
	}{
		{name: "plain release", input: "6.10.4-1", expected: "6.10.4"},
		{name: "epoch and revision", input: "2:46.2-1", expected: "46.2"},
		{name: "native package", input: "6.10.4", expected: "6.10.4"},
		{name: "hyphenated upstream", input: "1.0-2-3", expected: "1.0-2"},
		{name: "backport revision", input: "6.10.4-1~bpo12+1", expected: "6.10.4"},
		{name: "surrounding whitespace", input: " 46.2-1\n", expected: "46.2"},
		{name: "empty", input: "", shouldErr: true},
		{name: "garbage", input: "no version here", shouldErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := UpstreamVersion(tc.input)
			if tc.shouldErr {
				require.Error(t, err)
				require.True(t, errorx.IsOfType(err, InvalidVersionError))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}
