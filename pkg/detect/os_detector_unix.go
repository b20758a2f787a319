// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"bufio"
	"os"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// unixOSDetector reads the distribution release files of a Linux host. The
// provisioner only configures Debian, but the detector still names other
// distributions so the preflight check can report what it actually found.
type unixOSDetector struct {
	// release files to check, in order; paths are mapped in osReleaseFilePaths
	fileCheckSequence []string

	// mapping of release file name to path
	osReleaseFilePaths map[string]string

	logger zerolog.Logger
}

// extractVal extracts the value part of a KEY=value release file line,
// trimming surrounding whitespace and quotes.
func (ud *unixOSDetector) extractVal(line string) string {
	parts := strings.Split(line, "=")
	if len(parts) == 2 {
		return strings.Trim(strings.TrimSpace(parts[1]), "\"")
	}

	return ""
}

// detectLinuxFlavor converts a release ID from /etc/os-release or
// /etc/lsb-release into a flavor name.
func (ud *unixOSDetector) detectLinuxFlavor(releaseID string) string {
	releaseID = strings.ToLower(releaseID)
	if flavor, found := linuxFlavorMapping[releaseID]; found {
		return flavor
	}

	return OSFlavorUnknown
}

// extractOSInfo extracts version, flavor and codeName from an os-release or
// lsb-release style file by prefix matching the given keys. Keys missing from
// the file leave the corresponding fields empty; OS type and architecture
// always come from the Go runtime.
func (ud *unixOSDetector) extractOSInfo(path string, idPrefix string, releasePrefix string,
	codeNamePrefix string) (*OSInfo, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid OS file %q", path)
	}
	defer f.Close()

	osInfo := &OSInfo{
		Type:         runtime.GOOS,
		Architecture: runtime.GOARCH,
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, releasePrefix) {
			osInfo.Version = ud.extractVal(line)
		} else if strings.HasPrefix(line, idPrefix) {
			osInfo.Flavor = ud.detectLinuxFlavor(ud.extractVal(line))
		} else if strings.HasPrefix(line, codeNamePrefix) {
			osInfo.CodeName = ud.extractVal(line)
		}

		if osInfo.Version != "" && osInfo.Flavor != "" && osInfo.CodeName != "" {
			break
		}
	}

	return osInfo, nil
}

func (ud *unixOSDetector) scanLSBReleaseFile(path string) (*OSInfo, error) {
	return ud.extractOSInfo(path, "DISTRIB_ID=", "DISTRIB_RELEASE=", "DISTRIB_CODENAME=")
}

func (ud *unixOSDetector) scanOSReleaseFile(path string) (*OSInfo, error) {
	return ud.extractOSInfo(path, "ID=", "VERSION_ID=", "VERSION_CODENAME=")
}

func (ud *unixOSDetector) scanReleaseFile(releaseFileName string, path string) (*OSInfo, error) {
	switch releaseFileName {
	case LSBReleaseFileName:
		return ud.scanLSBReleaseFile(path)
	case OSReleaseFileName:
		return ud.scanOSReleaseFile(path)
	}

	return nil, errors.Newf("unsupported OS release file %q", path)
}

// ScanOS walks the release files in order and returns the first one that
// parses. Debian testing carries no /etc/lsb-release, so /etc/os-release is
// the file that resolves on the hosts deskstrap provisions.
func (ud *unixOSDetector) ScanOS() (*OSInfo, error) {
	var paths []string

	for _, releaseFileName := range ud.fileCheckSequence {
		if path, found := ud.osReleaseFilePaths[releaseFileName]; found {
			paths = append(paths, path)
			ud.logger.Debug().Msgf("Processing %q at %q", releaseFileName, path)
			osInfo, err := ud.scanReleaseFile(releaseFileName, path)
			if err == nil {
				return osInfo, nil
			}
			ud.logger.Debug().Msgf("Processing %q failed: %s", path, err.Error())
		}
	}

	return nil, errors.Newf("failed to detect OS version, type and codeName from release files: %s", paths)
}

type UnixOSDetectorOption = func(ud *unixOSDetector)

// WithUnixOSReleasePaths allows injecting custom release file path locations for Unix OSDetector.
func WithUnixOSReleasePaths(paths map[string]string) UnixOSDetectorOption {
	return func(ud *unixOSDetector) {
		if paths != nil {
			ud.osReleaseFilePaths = paths
		}
	}
}

// WithUnixCheckSequence allows injecting the sequence for release path checks
func WithUnixCheckSequence(seq []string) UnixOSDetectorOption {
	return func(ud *unixOSDetector) {
		ud.fileCheckSequence = seq
	}
}

// WithUnixOSDetectorLogger allows injecting logger for the OSDetector
func WithUnixOSDetectorLogger(logger zerolog.Logger) UnixOSDetectorOption {
	return func(ud *unixOSDetector) {
		ud.logger = logger
	}
}

func NewUnixOSDetector(opts ...UnixOSDetectorOption) OSDetector {
	ud := &unixOSDetector{
		fileCheckSequence: []string{
			OSReleaseFileName,
			LSBReleaseFileName,
		},
		osReleaseFilePaths: map[string]string{
			OSReleaseFileName:  EtcOSReleasePath,
			LSBReleaseFileName: EtcLSBReleasePath,
		},
		logger: nolog,
	}

	for _, opt := range opts {
		opt(ud)
	}

	return ud
}

// NewOSDetector returns the release-file detector for the hosts deskstrap
// provisions.
func NewOSDetector() OSDetector {
	return NewUnixOSDetector()
}
