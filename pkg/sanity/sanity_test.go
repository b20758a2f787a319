// SPDX-License-Identifier: Apache-2.0

package sanity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanity_Alphanumeric(t *testing.T) {
	req := require.New(t)
	testCases := []struct {
		input  string
		output string
	}{
		{
			input:  "a,bc9",
			output: "abc9",
		},
		{
			input:  "a-,bc_9!",
			output: "abc9",
		},
		{
			input:  "",
			output: "",
		},
	}

	for _, testCase := range testCases {
		req.Equal(testCase.output, Alphanumeric(testCase.input), testCase.input)
	}
}

func TestSanity_Filename(t *testing.T) {
	req := require.New(t)
	testCases := []struct {
		input  string
		output string
		err    error
	}{
		{
			input:  "a,bc9",
			output: "abc9",
		},
		{
			input:  "_a-,bc_9!",
			output: "_a-bc_9",
		},
		{
			input:  "日本語",
			output: "",
			err:    ErrInvalidFilename,
		},
		{
			input:  "",
			output: "",
			err:    ErrInvalidFilename,
		},
	}

	for _, testCase := range testCases {
		output, err := Filename(testCase.input)
		req.Equal(testCase.output, output, testCase.input)
		req.Equal(testCase.err, err, testCase.input)
	}
}

func TestSanity_SanitizePath(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  string
		shouldErr bool
	}{
		{
			name:     "valid absolute path",
			input:    "/etc/apt/preferences",
			expected: "/etc/apt/preferences",
		},
		{
			name:     "redundant slashes cleaned",
			input:    "/etc//apt/./preferences",
			expected: "/etc/apt/preferences",
		},
		{
			name:      "relative path rejected",
			input:     "etc/apt/preferences",
			shouldErr: true,
		},
		{
			name:      "traversal segment rejected",
			input:     "/etc/apt/../shadow",
			shouldErr: true,
		},
		{
			name:      "shell metacharacters rejected",
			input:     "/etc/apt/preferences;rm -rf /",
			shouldErr: true,
		},
		{
			name:      "glob characters rejected in paths",
			input:     "/etc/apt/*.pref",
			shouldErr: true,
		},
		{
			name:      "empty path rejected",
			input:     "",
			shouldErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := SanitizePath(tc.input)
			if tc.shouldErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}

func TestSanity_ValidateIdentifier(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "simple name", input: "testing"},
		{name: "dashed name", input: "stable-backports"},
		{name: "with digits", input: "gtk3"},
		{name: "leading dash", input: "-testing", shouldErr: true},
		{name: "trailing dash", input: "testing-", shouldErr: true},
		{name: "uppercase", input: "Testing", shouldErr: true},
		{name: "whitespace", input: "stable backports", shouldErr: true},
		{name: "empty", input: "", shouldErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateIdentifier(tc.input)
			if tc.shouldErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSanity_ValidatePinPattern(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "plain package", input: "gnome-shell"},
		{name: "glob suffix", input: "linux-image-*"},
		{name: "plus in name", input: "libstdc++6"},
		{name: "dotted name", input: "gir1.2-gtk-3.0"},
		{name: "match everything", input: "*"},
		{name: "whitespace breaks stanza", input: "linux image", shouldErr: true},
		{name: "newline breaks stanza", input: "linux\nPin: release a=evil", shouldErr: true},
		{name: "leading glob with suffix", input: "*-image", shouldErr: true},
		{name: "empty", input: "", shouldErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePinPattern(tc.input)
			if tc.shouldErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSanity_ValidateMajorVersion(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "major minor", input: "6.10"},
		{name: "single component", input: "48"},
		{name: "three components", input: "6.10.1"},
		{name: "suffix rejected", input: "6.10-amd64", shouldErr: true},
		{name: "glob rejected", input: "6.10*", shouldErr: true},
		{name: "empty", input: "", shouldErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateMajorVersion(tc.input)
			if tc.shouldErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSanity_AllowedMirrorDomains(t *testing.T) {
	domains := AllowedMirrorDomains()
	require.NotEmpty(t, domains)

	// every allowlisted apex domain must itself validate as a mirror host
	for _, domain := range domains {
		require.NoError(t, ValidateMirrorURL("https://"+domain+"/debian"))
	}

	// the returned slice is a copy, mutating it must not widen the allowlist
	domains[0] = "example.com"
	require.Error(t, ValidateMirrorURL("https://example.com/debian"))
}

func TestSanity_ValidateMirrorURL(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "primary mirror", input: "https://deb.debian.org/debian"},
		{name: "security mirror", input: "https://security.debian.org/debian-security"},
		{name: "country mirror", input: "http://ftp.de.debian.org/debian"},
		{name: "untrusted host", input: "https://evil.example.com/debian", shouldErr: true},
		{name: "suffix spoof", input: "https://notdebian.org/debian", shouldErr: true},
		{name: "ftp scheme", input: "ftp://deb.debian.org/debian", shouldErr: true},
		{name: "no host", input: "https:///debian", shouldErr: true},
		{name: "empty", input: "", shouldErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateMirrorURL(tc.input)
			if tc.shouldErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
