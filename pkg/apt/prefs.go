// SPDX-License-Identifier: Apache-2.0

// Package apt maintains the APT version-pin configuration of a deskstrap
// workstation: an /etc/apt/preferences file mixing a rolling testing channel
// with stable and stable-backports, plus hard version locks for the kernel
// and desktop-shell package groups.
//
// The preferences file is always handled as an explicit load-mutate-write
// cycle over the ordered stanza model below; nothing in this package keeps
// file state in memory between calls.
package apt

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/deskstrap/deskstrap/pkg/sanity"
)

const (
	fieldPackage     = "Package"
	fieldPin         = "Pin"
	fieldPinPriority = "Pin-Priority"

	pinReleasePrefix = "release a="
	pinVersionPrefix = "version "
)

// renderedHeader is emitted verbatim at the top of every rendered
// preferences file. Parse skips comments, so rendering is deterministic and
// a refresh with unchanged versions reproduces the file byte for byte.
const renderedHeader = "# Debian APT pin priorities maintained by deskstrap.\n" +
	"# 'deskstrap pins refresh' rewrites this file; comments are not preserved.\n"

// Field is one preferences field the stanza model does not interpret, kept
// verbatim so hand-added Explanation lines and fields from newer APT
// releases survive a rewrite.
type Field struct {
	Key   string
	Value string
}

// Stanza is one APT preference rule: a package name pattern, a pin
// expression and the priority APT assigns to versions matching the pin.
// Extra carries the stanza's uninterpreted fields in file order; Render
// places them after the three core fields.
type Stanza struct {
	Package  string
	Pin      string
	Priority int
	Extra    []Field
}

// ReleasePin returns the pin expression selecting every version published in
// the given archive, e.g. "release a=testing".
func ReleasePin(archive string) string {
	return pinReleasePrefix + archive
}

// VersionPin returns the pin expression locking a package group to a major
// version prefix, e.g. "version 6.10*".
func VersionPin(version string) string {
	return pinVersionPrefix + version + "*"
}

// IsReleasePin reports whether the stanza pins a release channel.
func (s Stanza) IsReleasePin() bool {
	return strings.HasPrefix(s.Pin, pinReleasePrefix)
}

// IsVersionPin reports whether the stanza locks a version.
func (s Stanza) IsVersionPin() bool {
	return strings.HasPrefix(s.Pin, pinVersionPrefix)
}

// ReleaseArchive returns the archive name of a release pin.
func (s Stanza) ReleaseArchive() (string, bool) {
	if !s.IsReleasePin() {
		return "", false
	}

	return strings.TrimPrefix(s.Pin, pinReleasePrefix), true
}

// VersionConstraint returns the version constraint of a version pin as
// stored, glob included, e.g. "6.10*".
func (s Stanza) VersionConstraint() (string, bool) {
	if !s.IsVersionPin() {
		return "", false
	}

	return strings.TrimPrefix(s.Pin, pinVersionPrefix), true
}

// Validate checks that the stanza can be rendered without corrupting the
// file. The stanza format has no quoting mechanism, so every field must be
// free of line breaks and the package pattern must be a well-formed APT
// pattern.
func (s Stanza) Validate() error {
	if err := sanity.ValidatePinPattern(s.Package); err != nil {
		return MalformedPreferencesError.Wrap(err, "invalid package pattern").
			WithProperty(packageProperty, s.Package)
	}

	if strings.TrimSpace(s.Pin) == "" {
		return MalformedPreferencesError.New("stanza for %q has an empty pin expression", s.Package).
			WithProperty(packageProperty, s.Package)
	}

	if strings.ContainsAny(s.Pin, "\r\n") {
		return MalformedPreferencesError.New("stanza for %q has a line break in its pin expression", s.Package).
			WithProperty(packageProperty, s.Package)
	}

	for _, f := range s.Extra {
		if strings.TrimSpace(f.Key) == "" {
			return MalformedPreferencesError.New("stanza for %q has an extra field with an empty key", s.Package).
				WithProperty(packageProperty, s.Package)
		}
		if strings.ContainsAny(f.Key, ":\r\n") || strings.ContainsAny(f.Value, "\r\n") {
			return MalformedPreferencesError.New("stanza for %q has a line break or colon in extra field %q", s.Package, f.Key).
				WithProperty(packageProperty, s.Package)
		}
	}

	return nil
}

func (s Stanza) render(buf *bytes.Buffer) {
	buf.WriteString(fieldPackage)
	buf.WriteString(": ")
	buf.WriteString(s.Package)
	buf.WriteByte('\n')
	buf.WriteString(fieldPin)
	buf.WriteString(": ")
	buf.WriteString(s.Pin)
	buf.WriteByte('\n')
	buf.WriteString(fieldPinPriority)
	buf.WriteString(": ")
	buf.WriteString(strconv.Itoa(s.Priority))
	buf.WriteByte('\n')

	for _, f := range s.Extra {
		buf.WriteString(f.Key)
		buf.WriteString(": ")
		buf.WriteString(f.Value)
		buf.WriteByte('\n')
	}
}

// Preferences is the ordered stanza model of one APT preferences file.
type Preferences struct {
	Stanzas []Stanza
}

// NewPreferences builds the complete preference set written at provisioning
// time: one stanza per channel followed by one version-lock stanza per
// locked package group.
func NewPreferences(channels []Channel, locks []VersionLock) *Preferences {
	prefs := &Preferences{
		Stanzas: make([]Stanza, 0, len(channels)+len(locks)),
	}

	for _, c := range channels {
		prefs.Stanzas = append(prefs.Stanzas, c.Stanza())
	}

	for _, l := range locks {
		prefs.Stanzas = append(prefs.Stanzas, l.Stanza())
	}

	return prefs
}

// ParsePreferences reads an APT preferences file into the ordered stanza
// model. Comment lines are dropped; Explanation lines and fields the model
// does not interpret stay with their stanza so a rewrite cannot lose them.
// Stanzas are separated by blank lines as in the format APT itself accepts.
func ParsePreferences(r io.Reader) (*Preferences, error) {
	prefs := &Preferences{}

	var (
		current     Stanza
		seenPackage bool
		seenPin     bool
		seenPrio    bool
	)

	flush := func(lineNo int) error {
		if !seenPackage && !seenPin && !seenPrio && len(current.Extra) == 0 {
			return nil
		}

		if !seenPackage || !seenPin || !seenPrio {
			return MalformedPreferencesError.
				New("incomplete stanza ending at line %d: Package, Pin and Pin-Priority are all required", lineNo).
				WithProperty(lineProperty, strconv.Itoa(lineNo))
		}

		prefs.Stanzas = append(prefs.Stanzas, current)
		current = Stanza{}
		seenPackage, seenPin, seenPrio = false, false, false
		return nil
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			if err := flush(lineNo); err != nil {
				return nil, err
			}
			continue
		}

		if strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, MalformedPreferencesError.
				New("line %d is not a field or a comment: %q", lineNo, line).
				WithProperty(lineProperty, strconv.Itoa(lineNo))
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case strings.EqualFold(key, fieldPackage):
			if seenPackage {
				return nil, duplicateFieldError(fieldPackage, lineNo)
			}
			current.Package = value
			seenPackage = true
		case strings.EqualFold(key, fieldPin):
			if seenPin {
				return nil, duplicateFieldError(fieldPin, lineNo)
			}
			current.Pin = value
			seenPin = true
		case strings.EqualFold(key, fieldPinPriority):
			if seenPrio {
				return nil, duplicateFieldError(fieldPinPriority, lineNo)
			}
			prio, err := strconv.Atoi(value)
			if err != nil {
				return nil, MalformedPreferencesError.
					New("line %d has a non-integer pin priority: %q", lineNo, value).
					WithProperty(lineProperty, strconv.Itoa(lineNo))
			}
			current.Priority = prio
			seenPrio = true
		default:
			// Explanation and any field from a newer APT release; kept
			// verbatim, repeats allowed.
			current.Extra = append(current.Extra, Field{Key: key, Value: value})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, MalformedPreferencesError.Wrap(err, "failed to read preferences")
	}

	if err := flush(lineNo); err != nil {
		return nil, err
	}

	return prefs, nil
}

func duplicateFieldError(field string, lineNo int) error {
	return MalformedPreferencesError.
		New("line %d repeats the %s field within one stanza", lineNo, field).
		WithProperty(lineProperty, strconv.Itoa(lineNo))
}

// Render produces the full preferences file content. Output is deterministic
// for a given stanza sequence, which is what makes the weekly refresh
// idempotent at the byte level.
func (p *Preferences) Render() []byte {
	var buf bytes.Buffer
	buf.WriteString(renderedHeader)

	for _, s := range p.Stanzas {
		buf.WriteByte('\n')
		s.render(&buf)
	}

	return buf.Bytes()
}

// FindVersionLock returns a copy of the version-lock stanza for the given
// package pattern.
func (p *Preferences) FindVersionLock(pattern string) (Stanza, bool) {
	if i := p.versionLockIndex(pattern); i >= 0 {
		return p.Stanzas[i], true
	}

	return Stanza{}, false
}

// SetVersionLock replaces the version constraint of the lock stanza matching
// pattern, keeping the stanza's pattern and priority untouched. A missing
// stanza is appended at LockPriority. It reports whether the preference set
// changed.
func (p *Preferences) SetVersionLock(pattern, version string) (bool, error) {
	if err := sanity.ValidatePinPattern(pattern); err != nil {
		return false, MalformedPreferencesError.Wrap(err, "invalid lock pattern").
			WithProperty(packageProperty, pattern)
	}

	if err := sanity.ValidateMajorVersion(version); err != nil {
		return false, MalformedPreferencesError.Wrap(err, "invalid lock version for %q", pattern).
			WithProperty(packageProperty, pattern)
	}

	pin := VersionPin(version)
	if i := p.versionLockIndex(pattern); i >= 0 {
		if p.Stanzas[i].Pin == pin {
			return false, nil
		}

		p.Stanzas[i].Pin = pin
		return true, nil
	}

	p.Stanzas = append(p.Stanzas, Stanza{
		Package:  pattern,
		Pin:      pin,
		Priority: LockPriority,
	})

	return true, nil
}

func (p *Preferences) versionLockIndex(pattern string) int {
	for i := range p.Stanzas {
		if p.Stanzas[i].Package == pattern && p.Stanzas[i].IsVersionPin() {
			return i
		}
	}

	return -1
}

// Validate checks every stanza and the cross-stanza priority invariant:
// each version lock must outrank every release channel, otherwise the lock
// stops being effective.
func (p *Preferences) Validate() error {
	maxChannel := 0
	haveChannel := false

	for _, s := range p.Stanzas {
		if err := s.Validate(); err != nil {
			return err
		}

		if s.IsReleasePin() && (!haveChannel || s.Priority > maxChannel) {
			maxChannel = s.Priority
			haveChannel = true
		}
	}

	if !haveChannel {
		return nil
	}

	for _, s := range p.Stanzas {
		if s.IsVersionPin() && s.Priority <= maxChannel {
			return PriorityInvariantError.
				New("version lock for %q has priority %d which does not exceed the highest channel priority %d",
					s.Package, s.Priority, maxChannel).
				WithProperty(packageProperty, s.Package)
		}
	}

	return nil
}
