// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// versionPrefixPattern captures the leading dot-separated numeric components
// of a version string, e.g. "6" and "10" from "6.10.0-3-amd64".
var versionPrefixPattern = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]+))?`)

// MajorMinor extracts the first two dot-separated numeric components of a
// version string: "6.10" from "6.10.0-3-amd64". Strings without two leading
// numeric components are rejected.
func MajorMinor(version string) (string, error) {
	m := versionPrefixPattern.FindStringSubmatch(version)
	if m == nil || m[2] == "" {
		return "", MalformedVersionError.
			New("cannot extract major.minor from version string %q", version).
			WithProperty(versionProperty, version)
	}

	return fmt.Sprintf("%s.%s", m[1], m[2]), nil
}

// Major extracts the first dot-separated numeric component of a version
// string: "46" from "46.2".
func Major(version string) (string, error) {
	m := versionPrefixPattern.FindStringSubmatch(version)
	if m == nil {
		return "", MalformedVersionError.
			New("cannot extract major version from string %q", version).
			WithProperty(versionProperty, version)
	}

	return m[1], nil
}

// CompareVersionPrefix compares two major or major.minor strings as
// versions, returning -1, 0 or 1. The refresher uses this to tell a forward
// move of a version lock from a mirror regression.
func CompareVersionPrefix(a, b string) (int, error) {
	va, err := semver.NewVersion(a)
	if err != nil {
		return 0, MalformedVersionError.Wrap(err, "cannot compare version prefix %q", a).
			WithProperty(versionProperty, a)
	}

	vb, err := semver.NewVersion(b)
	if err != nil {
		return 0, MalformedVersionError.Wrap(err, "cannot compare version prefix %q", b).
			WithProperty(versionProperty, b)
	}

	return va.Compare(vb), nil
}
