// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/joomcode/errorx"
)

const (
	// DefaultShellMajor is assumed when gnome-shell is not installed or does
	// not report a usable version: the major currently shipping in Debian
	// testing. A missing shell means "not yet configured", not an error, so
	// provisioning locks it to the version it is about to install.
	DefaultShellMajor = "48"

	shellProgram = "gnome-shell"
)

// shellVersionPattern finds the numeric version inside self-reported version
// output such as "GNOME Shell 46.2".
var shellVersionPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)*`)

// runShellVersion invokes the desktop shell's version query. Overridable for
// tests.
var runShellVersion = func(ctx context.Context) (string, error) {
	path, err := exec.LookPath(shellProgram)
	if err != nil {
		return "", DetectionFailedError.Wrap(err, "%s is not installed", shellProgram)
	}

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", errorx.IllegalState.Wrap(err, "failed to query %s version", shellProgram)
	}

	return strings.TrimSpace(string(out)), nil
}

// ShellMajor returns the installed desktop shell's major version. Every
// failure degrades to DefaultShellMajor: absence and unparsable output both
// mean the shell is not configured yet.
func (d *Detector) ShellMajor(ctx context.Context) string {
	out, err := runShellVersion(ctx)
	if err != nil {
		d.log.Warn().Err(err).
			Str("default", DefaultShellMajor).
			Msg("Desktop shell version not detected, assuming default")
		return DefaultShellMajor
	}

	version := shellVersionPattern.FindString(out)
	if version == "" {
		d.log.Warn().Str("output", out).
			Str("default", DefaultShellMajor).
			Msg("Desktop shell version output not recognized, assuming default")
		return DefaultShellMajor
	}

	major, err := Major(version)
	if err != nil {
		d.log.Warn().Err(err).
			Str("default", DefaultShellMajor).
			Msg("Desktop shell version not parsable, assuming default")
		return DefaultShellMajor
	}

	d.log.Debug().Str("output", out).Str("version", major).Msg("Detected desktop shell version")
	return major
}
