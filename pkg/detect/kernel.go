// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"golang.org/x/sys/unix"
)

// unameRelease reads the running kernel's release string. Overridable for
// tests.
var unameRelease = func() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", DetectionFailedError.Wrap(err, "uname query failed")
	}

	return unix.ByteSliceToString(uts.Release[:]), nil
}

// KernelRelease returns the running kernel's release string, e.g.
// "6.10.0-3-amd64".
func (d *Detector) KernelRelease() (string, error) {
	return unameRelease()
}

// KernelMajorMinor returns the running kernel's major.minor version, the
// value the kernel image packages are locked to. Unlike the desktop shell
// there is no sane fallback: a kernel release that cannot be parsed fails
// the detection.
func (d *Detector) KernelMajorMinor() (string, error) {
	release, err := unameRelease()
	if err != nil {
		return "", err
	}

	version, err := MajorMinor(release)
	if err != nil {
		return "", err
	}

	d.log.Debug().Str("release", release).Str("version", version).Msg("Detected running kernel version")
	return version, nil
}
