// SPDX-License-Identifier: Apache-2.0

package apt

import (
	"bytes"
	"strings"

	"github.com/deskstrap/deskstrap/pkg/sanity"
)

const (
	// DefaultSourcesPath is the repository list rewritten at provisioning
	// time, after the original is backed up.
	DefaultSourcesPath = "/etc/apt/sources.list"

	// DefaultMirrorURL serves the main archive suites.
	DefaultMirrorURL = "http://deb.debian.org/debian"

	// DefaultSecurityMirrorURL serves the security suites.
	DefaultSecurityMirrorURL = "http://security.debian.org/debian-security"
)

// defaultComponents are the archive areas enabled on a deskstrap
// workstation. Firmware and driver packages live outside main.
var defaultComponents = []string{"main", "contrib", "non-free", "non-free-firmware"}

// SourceEntry is one repository line of a sources.list file.
type SourceEntry struct {
	Type       string
	URI        string
	Suite      string
	Components []string
}

// String renders the entry in one-line sources.list format.
func (e SourceEntry) String() string {
	parts := make([]string, 0, 3+len(e.Components))
	parts = append(parts, e.Type, e.URI, e.Suite)
	parts = append(parts, e.Components...)
	return strings.Join(parts, " ")
}

// Validate checks that the entry renders to a well-formed line pointing at
// an allowed mirror.
func (e SourceEntry) Validate() error {
	if e.Type != "deb" && e.Type != "deb-src" {
		return InvalidSourceError.New("source entry type must be deb or deb-src, got %q", e.Type)
	}

	if err := sanity.ValidateMirrorURL(e.URI); err != nil {
		return err
	}

	if err := sanity.ValidateIdentifier(e.Suite); err != nil {
		return InvalidSourceError.Wrap(err, "invalid suite in source entry")
	}

	if len(e.Components) == 0 {
		return InvalidSourceError.New("source entry for suite %q has no components", e.Suite)
	}

	return nil
}

// DefaultSources returns the repository set matching the channel layout:
// the three pinned suites from the main mirror plus the security suites.
// Empty mirror arguments select the Debian defaults.
func DefaultSources(mirror, securityMirror string) []SourceEntry {
	if mirror == "" {
		mirror = DefaultMirrorURL
	}
	if securityMirror == "" {
		securityMirror = DefaultSecurityMirrorURL
	}

	return []SourceEntry{
		{Type: "deb", URI: mirror, Suite: ArchiveTesting, Components: defaultComponents},
		{Type: "deb", URI: mirror, Suite: ArchiveStable, Components: defaultComponents},
		{Type: "deb", URI: mirror, Suite: ArchiveBackports, Components: defaultComponents},
		{Type: "deb", URI: securityMirror, Suite: "testing-security", Components: defaultComponents},
		{Type: "deb", URI: securityMirror, Suite: "stable-security", Components: defaultComponents},
	}
}

// RenderSources produces the full sources.list content for the given
// entries. Like the preferences renderer it is deterministic, so repeated
// provisioning runs leave the file untouched.
func RenderSources(entries []SourceEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# Debian package repositories maintained by deskstrap.\n")

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}

		buf.WriteString(e.String())
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}
