// SPDX-License-Identifier: Apache-2.0

// Package debver parses and compares Debian package version strings.
package debver

import (
	"strings"

	"github.com/joomcode/errorx"
	debversion "github.com/knqyf263/go-deb-version"
)

var (
	ErrorsNamespace = errorx.NewNamespace("debver")

	// InvalidVersionError indicates a string that is not a well-formed
	// Debian package version.
	InvalidVersionError = ErrorsNamespace.NewType("invalid_version")
)

// Cache memoizes parsed Debian versions so a refresh run parses each
// candidate string once however many comparisons it feeds.
type Cache struct {
	parsed map[string]debversion.Version
}

// NewCache returns an empty version cache.
func NewCache() *Cache {
	return &Cache{parsed: map[string]debversion.Version{}}
}

// Version returns the parsed form of value, caching the result.
func (c *Cache) Version(value string) (debversion.Version, error) {
	if parsed, ok := c.parsed[value]; ok {
		return parsed, nil
	}

	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, InvalidVersionError.Wrap(err, "invalid Debian version: %s", value)
	}

	c.parsed[value] = parsed
	return parsed, nil
}

// Compare returns -1, 0 or 1 comparing two Debian version strings. Parse
// failures surface as errors rather than comparing as equal.
func (c *Cache) Compare(a string, b string) (int, error) {
	va, err := c.Version(a)
	if err != nil {
		return 0, err
	}

	vb, err := c.Version(b)
	if err != nil {
		return 0, err
	}

	// go-deb-version reports component differences, not a sign
	switch cmp := va.Compare(vb); {
	case cmp < 0:
		return -1, nil
	case cmp > 0:
		return 1, nil
	default:
		return 0, nil
	}
}

// UpstreamVersion returns the upstream part of a Debian package version,
// stripping the epoch and the Debian revision: "2:46.2-1" yields "46.2".
// The revision follows the last hyphen, so hyphenated upstream versions
// survive intact.
func UpstreamVersion(value string) (string, error) {
	value = strings.TrimSpace(value)
	if _, err := debversion.NewVersion(value); err != nil {
		return "", InvalidVersionError.Wrap(err, "invalid Debian version: %s", value)
	}

	upstream := value
	if i := strings.Index(upstream, ":"); i >= 0 {
		upstream = upstream[i+1:]
	}
	if i := strings.LastIndex(upstream, "-"); i >= 0 {
		upstream = upstream[:i]
	}

	return upstream, nil
}
