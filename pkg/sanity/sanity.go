// SPDX-License-Identifier: Apache-2.0

package sanity

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joomcode/errorx"
)

var (
	ErrInvalidFilename = errorx.IllegalArgument.New("invalid filename")
)

// Security validation patterns for paths
var (
	// shellMetachars contains dangerous shell metacharacters that should be rejected
	shellMetachars = regexp.MustCompile(`[;&|$\x60<>(){}[\]*?~]`)

	// validPathChars ensures paths only contain safe characters
	// Allows: alphanumeric, forward slash, dash, underscore, dot
	validPathChars = regexp.MustCompile(`^[a-zA-Z0-9/_.\-]+$`)

	// validIdentifier matches safe configuration identifiers (channel names,
	// lock group names, theme names): lowercase alphanumeric with dashes,
	// starting and ending alphanumeric.
	validIdentifier = regexp.MustCompile(`^[a-z0-9]([a-z0-9\-]*[a-z0-9])?$`)

	// validPinPattern matches APT package name patterns as accepted in a
	// preferences stanza: Debian package name characters plus the shell-style
	// glob characters APT pinning understands. A bare "*" (match everything,
	// used by the channel stanzas) is also allowed.
	validPinPattern = regexp.MustCompile(`^(\*|[a-z0-9][a-z0-9+.\-*?]*)$`)

	// validMajorVersion matches dot-separated numeric version prefixes such
	// as "6.10" or "48".
	validMajorVersion = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

	// validPackageName matches Debian binary package names: lowercase
	// alphanumeric plus "+", "-" and ".", at least two characters.
	validPackageName = regexp.MustCompile(`^[a-z0-9][a-z0-9+.\-]+$`)

	// validThemeName matches GTK/icon theme directory names such as
	// "Arc-Dark" or "Papirus-Dark".
	validThemeName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.\-]*$`)
)

// Alphanumeric ensures the input string to be ascii alphanumeric
func Alphanumeric(s string) string {
	sb := []byte(s)
	j := 0
	for _, b := range sb {
		if ('a' <= b && b <= 'z') ||
			('A' <= b && b <= 'Z') ||
			('0' <= b && b <= '9') {
			sb[j] = b
			j++
		}
	}
	return string(sb[:j])
}

// Filename sanitize the input string to be safe filename
// It only allows alphanumeric characters (a-z, 0-9) and underscore
// It returns error if the filename is empty string after the sanitization
func Filename(s string) (string, error) {
	sb := []byte(s)
	j := 0
	for _, b := range sb {
		if ('a' <= b && b <= 'z') ||
			('A' <= b && b <= 'Z') ||
			('0' <= b && b <= '9') ||
			b == '_' ||
			b == '-' {
			sb[j] = b
			j++
		}
	}

	if j == 0 {
		return "", ErrInvalidFilename
	}

	return string(sb[:j]), nil
}

// SanitizePath validates and sanitizes the given path according to strict security rules.
//
// Specifically, it:
//  1. Rejects paths containing shell metacharacters (e.g., ; & | $ ` < > ( ) { } [ ] * ? ~).
//  2. Rejects path traversal attempts (e.g., segments like "../", "/..", or paths ending with "..").
//  3. Requires the input path to be absolute.
//  4. Normalizes the path by removing redundant slashes and dot directories (using filepath.Clean).
//  5. May return a cleaned version of the input path that differs from the original.
//
// Returns the sanitized (cleaned) path, or an error if the input is invalid or unsafe.
func SanitizePath(path string) (string, error) {
	if path == "" {
		return "", errorx.IllegalArgument.New("path cannot be empty")
	}

	// Ensure it's an absolute path
	if !filepath.IsAbs(path) {
		return "", errorx.IllegalArgument.New("path must be absolute: %s", path)
	}

	// Check for path traversal patterns BEFORE cleaning
	// This catches patterns like "../", "/..", and paths ending with ".."
	// which could allow escaping the intended directory structure
	// Check for ".." as a path segment
	for _, segment := range strings.Split(path, "/") {
		if segment == ".." {
			return "", errorx.IllegalArgument.New("path cannot contain '..' segments: %s", path)
		}
	}

	// Check for shell metacharacters in the original path
	if shellMetachars.MatchString(path) {
		return "", errorx.IllegalArgument.New("path contains shell metacharacters: %s", path)
	}

	// Check for valid characters in the original path
	if !validPathChars.MatchString(path) {
		return "", errorx.IllegalArgument.New("path contains invalid characters: %s", path)
	}

	return filepath.Clean(path), nil
}

// ValidateIdentifier checks that s is a safe lowercase identifier suitable
// for channel names, lock group names and similar configuration values.
func ValidateIdentifier(s string) error {
	if s == "" {
		return errorx.IllegalArgument.New("identifier cannot be empty")
	}

	if len(s) > 63 {
		return errorx.IllegalArgument.New("identifier too long (max 63 chars): %s", s)
	}

	if !validIdentifier.MatchString(s) {
		return errorx.IllegalArgument.New("identifier must be lowercase alphanumeric with dashes: %s", s)
	}

	return nil
}

// ValidatePinPattern checks that s is a safe APT package name pattern for a
// preferences stanza. The stanza format has no quoting mechanism, so any
// whitespace or field separator in the pattern would corrupt the file.
func ValidatePinPattern(s string) error {
	if s == "" {
		return errorx.IllegalArgument.New("package pattern cannot be empty")
	}

	if !validPinPattern.MatchString(s) {
		return errorx.IllegalArgument.New("invalid package pattern: %s", s)
	}

	return nil
}

// ValidateMajorVersion checks that s is a dot-separated numeric version
// prefix such as "6.10" or "48".
func ValidateMajorVersion(s string) error {
	if s == "" {
		return errorx.IllegalArgument.New("version cannot be empty")
	}

	if !validMajorVersion.MatchString(s) {
		return errorx.IllegalArgument.New("version must be dot-separated numerics: %s", s)
	}

	return nil
}

// ValidatePackageName checks that s is a well-formed Debian binary package
// name as accepted by apt-get and apt-cache.
func ValidatePackageName(s string) error {
	if s == "" {
		return errorx.IllegalArgument.New("package name cannot be empty")
	}

	if !validPackageName.MatchString(s) {
		return errorx.IllegalArgument.New("invalid package name: %s", s)
	}

	return nil
}

// ValidateThemeName checks that s is a safe theme directory name. Theme names
// end up in files rendered without quoting, so whitespace and path separators
// are rejected.
func ValidateThemeName(s string) error {
	if s == "" {
		return errorx.IllegalArgument.New("theme name cannot be empty")
	}

	if strings.Contains(s, "..") {
		return errorx.IllegalArgument.New("theme name cannot contain '..': %s", s)
	}

	if !validThemeName.MatchString(s) {
		return errorx.IllegalArgument.New("invalid theme name: %s", s)
	}

	return nil
}
