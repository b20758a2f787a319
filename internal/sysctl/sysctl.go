// SPDX-License-Identifier: Apache-2.0

// Package sysctl applies the desktop responsiveness kernel profile shipped in
// the embedded templates and supports backing up and restoring the settings
// it touches.
package sysctl

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joomcode/errorx"
	sysctl "github.com/lorenzosaino/go-sysctl"

	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/internal/templates"
)

const (
	DefaultPath   = sysctl.DefaultPath
	TemplatesDir  = "files/sysctl"
	EtcSysctlDir  = "/etc/sysctl.d"
	EtcSysctlConf = "/etc/sysctl.conf"
)

// use var to allow mocking in tests
var (
	sysctlConfigSourceDir      = TemplatesDir
	sysctlConfigDestinationDir = EtcSysctlDir
	defaultSysctlConf          = EtcSysctlConf
)

// BackupSettings backs up the current values of the sysctl keys the desktop
// profile will modify. If the backup file already exists, it is left alone so
// that repeated setup runs keep the pre-provisioning values.
// It returns the path to the backup file.
func BackupSettings(backupFile string) (string, error) {
	if _, err := os.Stat(backupFile); err == nil {
		return backupFile, nil
	}

	currentCandidateSettings, err := CurrentCandidateSettings()
	if err != nil {
		return "", err
	}

	var lines []string
	for k, v := range currentCandidateSettings {
		parts := strings.Split(v, "\n")
		for _, part := range parts {
			// spaces around '=' for consistency with sysctl -a output
			lines = append(lines, k+" = "+part)
		}
	}

	err = os.MkdirAll(path.Dir(backupFile), core.DefaultDirOrExecPerm)
	if err != nil {
		return "", err
	}

	err = os.WriteFile(backupFile, []byte(strings.Join(lines, "\n")), core.DefaultFilePerm)
	if err != nil {
		return "", err
	}

	return backupFile, nil
}

// CopyConfiguration copies the desktop profile from the embedded templates to
// /etc/sysctl.d, overwriting any previous copy. It returns the copied files.
func CopyConfiguration() ([]string, error) {
	return templates.CopyTemplateFiles(sysctlConfigSourceDir, sysctlConfigDestinationDir)
}

// LoadAllConfiguration reloads sysctl settings from configuration files in
// /etc/sysctl.d and /etc/sysctl.conf. It returns the files that were used.
func LoadAllConfiguration() ([]string, error) {
	currentConfigFiles, err := FindSysctlConfigFiles()
	if err != nil {
		return currentConfigFiles, err
	}

	return LoadConfigurationFrom(currentConfigFiles)
}

// DesiredCandidateSettings returns the sysctl settings defined by the desktop
// profile templates.
func DesiredCandidateSettings() (map[string]string, error) {
	tempDir := path.Join(core.Paths().TempDir, "templates", "sysctl")
	err := os.MkdirAll(tempDir, core.DefaultDirOrExecPerm)
	if err != nil {
		return nil, err
	}

	templateFiles, err := templates.CopyTemplateFiles(sysctlConfigSourceDir, tempDir)
	if err != nil {
		return nil, err
	}

	candidateSettings, err := sysctl.LoadConfig(templateFiles...)

	return candidateSettings, err
}

// CurrentCandidateSettings returns the current values of the sysctl keys the
// desktop profile defines. Keys the running kernel does not expose are
// omitted.
func CurrentCandidateSettings() (map[string]string, error) {
	currentSettings, err := sysctl.GetAll()
	if err != nil {
		return nil, err
	}

	candidateSettings, err := DesiredCandidateSettings()
	if err != nil {
		return nil, err
	}

	currentValuesForCandidates := make(map[string]string)
	if len(candidateSettings) > 0 {
		for k := range candidateSettings {
			if c, ok := currentSettings[k]; ok {
				currentValuesForCandidates[k] = c
			}
		}
	}

	return currentValuesForCandidates, nil
}

// RestoreSettings restores sysctl settings from the given backup file.
// It returns an error if the backup file does not exist or if the settings
// could not be applied.
func RestoreSettings(backupFile string) error {
	if _, err := os.Stat(backupFile); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	err := sysctl.LoadConfigAndApply(backupFile)
	if err != nil {
		return err
	}

	return nil
}

// DeleteConfiguration removes the desktop profile files from /etc/sysctl.d.
// It returns a list of removed files.
func DeleteConfiguration() ([]string, error) {
	return templates.RemoveTemplateFiles(sysctlConfigSourceDir, sysctlConfigDestinationDir)
}

// FindSysctlConfigFiles returns a sorted list of sysctl configuration files in /etc/sysctl.d
func FindSysctlConfigFiles() ([]string, error) {
	dirEntries, err := os.ReadDir(sysctlConfigDestinationDir)
	if err != nil {
		return nil, err
	}

	var configFiles []string
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}

		// only config files ending with .conf are honoured by sysctl
		if !strings.HasSuffix(entry.Name(), ".conf") {
			continue
		}

		configFiles = append(configFiles, path.Join(sysctlConfigDestinationDir, entry.Name()))
	}

	if len(configFiles) == 0 {
		return nil, nil
	}

	sort.Strings(configFiles)

	return configFiles, nil
}

// LoadConfigurationFrom reloads sysctl settings from the given configuration
// files. If the configFiles slice is empty, it falls back to /etc/sysctl.conf
// when that file exists. It returns the files that were used.
func LoadConfigurationFrom(configFiles []string) ([]string, error) {
	var err error
	if len(configFiles) == 0 {
		if _, err = os.Stat(defaultSysctlConf); os.IsNotExist(err) {
			return configFiles, nil // nothing to reload
		}
	}

	// even with no files found, reload so that changes to /etc/sysctl.conf
	// still take effect; LoadConfig falls back to it for an empty list
	err = applyConfigs(configFiles...)
	if err != nil {
		return configFiles, err
	}

	return configFiles, nil
}

// applyConfigs sets sysctl values from a list of sysctl configuration files.
// The values in the rightmost files take priority.
func applyConfigs(files ...string) error {
	config, err := sysctl.LoadConfig(files...)
	if err != nil {
		return errorx.IllegalArgument.Wrap(err, "could not read configuration from files %v", files)
	}
	for k, v := range config {
		if err := Set(k, v); err != nil {
			return errorx.InternalError.Wrap(err, "could not set %s = %s", k, v)
		}
	}
	return nil
}

// Set updates the value of a sysctl.
func Set(key, value string) error {
	sysctlPath, err := PathFromKey(key)
	if err != nil {
		return err
	}

	if err := os.WriteFile(sysctlPath, []byte(value), core.DefaultFilePerm); err != nil {
		return errorx.InternalError.Wrap(err, "failed to set %s", sysctlPath)
	}

	return nil
}

// PathFromKey returns the /proc/sys file path for a given sysctl key.
func PathFromKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "-")
	if key == "" {
		return "", errorx.IllegalArgument.New("key cannot be empty")
	}

	return filepath.Join(DefaultPath, strings.ReplaceAll(key, ".", "/")), nil
}
