// SPDX-License-Identifier: Apache-2.0

package software

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

var nolog = zerolog.Nop()

var logFields = struct {
	name    string
	path    string
	hash    string
	version string
}{
	name:    "name",
	path:    "path",
	hash:    "hash",
	version: "version",
}

// NewProgramDetector returns an instance of ProgramDetector.
// This returns unixProgramDetector that works for linux and darwin.
func NewProgramDetector(logger *zerolog.Logger) ProgramDetector {
	return NewUnixProgramDetector(logger)
}

// unixProgramDetector implements the ProgramDetector interface for unix.
type unixProgramDetector struct {
	logger *zerolog.Logger
}

func (ud *unixProgramDetector) DetectExecutablePath(name string) (string, error) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.Command(shell, "-c", fmt.Sprintf("command -v %s", name))
	output, err := cmd.Output()
	if err != nil {
		return "", NewProgramNotFoundError(err, name)
	}

	programPath := strings.Trim(string(output), "\n")
	if programPath == "" {
		return "", NewProgramNotFoundError(nil, name)
	}

	return programPath, nil
}

func (ud *unixProgramDetector) computeProgramHash(path string) ([32]byte, error) {
	hash := [32]byte{}

	b, err := os.ReadFile(path)
	if err != nil {
		return hash, NewVersionProbeError(err, path)
	}

	hash = sha256.Sum256(b)
	return hash, nil
}

func (ud *unixProgramDetector) DetectProgramVersion(path string, query VersionQuery) (string, error) {
	cmd := exec.Command(path, query.Args...)
	verStr, err := cmd.Output()
	if err != nil {
		return "", NewVersionProbeError(err, path)
	}

	reg, err := regexp.Compile(query.Pattern)
	if err != nil {
		return "", NewVersionProbeError(err, path)
	}

	return reg.FindString(string(verStr)), nil
}

func (ud *unixProgramDetector) GetProgramInfo(ctx context.Context, name string, defaultLocation string, query VersionQuery) (ProgramInfo, error) {
	var err error
	var statInfo os.FileInfo
	var path string

	ud.logger.Debug().
		Str(logFields.name, name).
		Msg("Scan software: checking program state")

	if defaultLocation == "" {
		// attempt path resolution if default location was not present
		path, err = ud.DetectExecutablePath(name)
		if err != nil {
			return nil, err
		}
	} else {
		// try to get info of the executable at the default location
		path = defaultLocation
		statInfo, err = os.Stat(path)
		if err != nil {
			// attempt path resolution if default location was not accessible
			path, err = ud.DetectExecutablePath(name)
			if err != nil {
				return nil, err
			}
		}
	}

	if statInfo == nil {
		statInfo, err = os.Stat(path)
		if err != nil {
			return nil, NewProgramNotFoundError(err, name)
		}
	}

	ud.logger.Debug().
		Str(logFields.name, name).
		Str(logFields.path, path).
		Msg("Program state: located potential executable")

	hash, err := ud.computeProgramHash(path)
	if err != nil {
		return nil, err
	}

	version, err := ud.DetectProgramVersion(path, query)
	if err != nil {
		return nil, err
	}

	info := &programInfo{
		path:       path,
		mode:       statInfo.Mode(),
		version:    version,
		sha256Hash: fmt.Sprintf("%x", hash),
	}

	ud.logger.Debug().
		Str(logFields.name, name).
		Str(logFields.path, info.GetPath()).
		Str(logFields.hash, info.GetHash()).
		Str(logFields.version, info.GetVersion()).
		Msg("Program state: identified program details")

	return info, nil
}

func NewUnixProgramDetector(logger *zerolog.Logger) ProgramDetector {
	if logger == nil {
		logger = &nolog
	}

	return &unixProgramDetector{
		logger: logger,
	}
}
