// SPDX-License-Identifier: Apache-2.0

package config

import (
	"strings"
	"time"

	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/spf13/viper"

	"github.com/deskstrap/deskstrap/pkg/apt"
	"github.com/deskstrap/deskstrap/pkg/cronspec"
	"github.com/deskstrap/deskstrap/pkg/sanity"
)

// Config holds the global configuration for the application.
type Config struct {
	Log      logx.LoggingConfig `yaml:"log" json:"log"`
	Apt      AptConfig          `yaml:"apt" json:"apt"`
	Packages PackagesConfig     `yaml:"packages" json:"packages"`
	Gpu      GpuConfig          `yaml:"gpu" json:"gpu"`
	Network  NetworkConfig      `yaml:"network" json:"network"`
	Theme    ThemeConfig        `yaml:"theme" json:"theme"`
	Refresh  RefreshConfig      `yaml:"refresh" json:"refresh"`
}

// AptConfig represents the `apt` configuration block: where the repository
// and pin files live and which mirrors the sources list points at.
type AptConfig struct {
	Mirror          string `yaml:"mirror" json:"mirror"`
	SecurityMirror  string `yaml:"securityMirror" json:"securityMirror"`
	SourcesPath     string `yaml:"sourcesPath" json:"sourcesPath"`
	PreferencesPath string `yaml:"preferencesPath" json:"preferencesPath"`
	// QueryTimeoutSeconds bounds every package-index query so the
	// unattended weekly refresh cannot hang indefinitely.
	QueryTimeoutSeconds int `yaml:"queryTimeoutSeconds" json:"queryTimeoutSeconds"`
}

// QueryTimeout returns the configured package-index query timeout.
func (c AptConfig) QueryTimeout() time.Duration {
	if c.QueryTimeoutSeconds <= 0 {
		return apt.DefaultQueryTimeout
	}
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// Validate validates the apt configuration fields that are set.
func (c AptConfig) Validate() error {
	if c.Mirror != "" {
		if err := sanity.ValidateMirrorURL(c.Mirror); err != nil {
			return errorx.IllegalArgument.Wrap(err, "invalid apt mirror: %s", c.Mirror)
		}
	}

	if c.SecurityMirror != "" {
		if err := sanity.ValidateMirrorURL(c.SecurityMirror); err != nil {
			return errorx.IllegalArgument.Wrap(err, "invalid apt security mirror: %s", c.SecurityMirror)
		}
	}

	if c.SourcesPath != "" {
		if _, err := sanity.SanitizePath(c.SourcesPath); err != nil {
			return errorx.IllegalArgument.Wrap(err, "invalid sources path: %s", c.SourcesPath)
		}
	}

	if c.PreferencesPath != "" {
		if _, err := sanity.SanitizePath(c.PreferencesPath); err != nil {
			return errorx.IllegalArgument.Wrap(err, "invalid preferences path: %s", c.PreferencesPath)
		}
	}

	if c.QueryTimeoutSeconds < 0 {
		return errorx.IllegalArgument.New("apt query timeout must not be negative: %d", c.QueryTimeoutSeconds)
	}

	return nil
}

// PackagesConfig represents the `packages` configuration block.
type PackagesConfig struct {
	// Extra lists additional packages installed after the curated sets.
	Extra []string `yaml:"extra" json:"extra"`
	// SkipSets names curated sets to leave out, e.g. "multimedia".
	SkipSets []string `yaml:"skipSets" json:"skipSets"`
}

// Validate validates the packages configuration fields.
func (c PackagesConfig) Validate() error {
	for _, pkg := range c.Extra {
		if err := sanity.ValidatePackageName(pkg); err != nil {
			return errorx.IllegalArgument.Wrap(err, "invalid extra package name: %s", pkg)
		}
	}

	for _, set := range c.SkipSets {
		if err := sanity.ValidateIdentifier(set); err != nil {
			return errorx.IllegalArgument.Wrap(err, "invalid package set name: %s", set)
		}
	}

	return nil
}

// GPU vendor override values accepted in GpuConfig.Vendor.
const (
	GpuVendorAuto   = "auto"
	GpuVendorNvidia = "nvidia"
	GpuVendorAmd    = "amd"
	GpuVendorOther  = "other"
)

// GpuConfig represents the `gpu` configuration block. Vendor overrides the
// hardware probe, for machines whose PCI inventory misreports the adapter.
type GpuConfig struct {
	Vendor string `yaml:"vendor" json:"vendor"`
}

// Validate validates the gpu configuration fields.
func (c GpuConfig) Validate() error {
	switch c.Vendor {
	case "", GpuVendorAuto, GpuVendorNvidia, GpuVendorAmd, GpuVendorOther:
		return nil
	default:
		return errorx.IllegalArgument.New(
			"unsupported gpu vendor override: %q (must be auto, nvidia, amd or other)", c.Vendor)
	}
}

// NetworkConfig represents the `network` configuration block.
type NetworkConfig struct {
	// ManageIfupdownDevices marks ifupdown-configured interfaces as managed
	// by NetworkManager instead of leaving them to /etc/network/interfaces.
	ManageIfupdownDevices bool `yaml:"manageIfupdownDevices" json:"manageIfupdownDevices"`
	// RestartService restarts NetworkManager after writing the drop-in.
	RestartService bool `yaml:"restartService" json:"restartService"`
}

// Validate validates the network configuration fields.
func (c NetworkConfig) Validate() error {
	return nil
}

// ThemeConfig represents the `theme` configuration block.
type ThemeConfig struct {
	GtkTheme  string `yaml:"gtkTheme" json:"gtkTheme"`
	IconTheme string `yaml:"iconTheme" json:"iconTheme"`
	// ApplyToExistingUsers writes GTK settings into every human account's
	// home directory in addition to /etc/skel.
	ApplyToExistingUsers bool `yaml:"applyToExistingUsers" json:"applyToExistingUsers"`
}

// Validate validates the theme configuration fields that are set.
func (c ThemeConfig) Validate() error {
	if c.GtkTheme != "" {
		if err := sanity.ValidateThemeName(c.GtkTheme); err != nil {
			return errorx.IllegalArgument.Wrap(err, "invalid GTK theme name: %s", c.GtkTheme)
		}
	}

	if c.IconTheme != "" {
		if err := sanity.ValidateThemeName(c.IconTheme); err != nil {
			return errorx.IllegalArgument.Wrap(err, "invalid icon theme name: %s", c.IconTheme)
		}
	}

	return nil
}

// RefreshConfig represents the `refresh` configuration block for the weekly
// pin refresh job.
type RefreshConfig struct {
	// Schedule is a five-field cron expression.
	Schedule string `yaml:"schedule" json:"schedule"`
}

// Validate validates the refresh configuration fields that are set.
func (c RefreshConfig) Validate() error {
	if c.Schedule != "" {
		if err := cronspec.Validate(c.Schedule); err != nil {
			return errorx.IllegalArgument.Wrap(err, "invalid refresh schedule: %s", c.Schedule)
		}
	}

	return nil
}

// Validate validates all configuration fields to ensure they are safe and secure.
func (c Config) Validate() error {
	if err := c.Apt.Validate(); err != nil {
		return err
	}
	if err := c.Packages.Validate(); err != nil {
		return err
	}
	if err := c.Gpu.Validate(); err != nil {
		return err
	}
	if err := c.Network.Validate(); err != nil {
		return err
	}
	if err := c.Theme.Validate(); err != nil {
		return err
	}
	if err := c.Refresh.Validate(); err != nil {
		return err
	}
	return nil
}

var globalConfig = Config{
	Log: logx.LoggingConfig{
		Level:          "Debug",
		ConsoleLogging: true,
		FileLogging:    false,
	},
	Apt: AptConfig{
		Mirror:          apt.DefaultMirrorURL,
		SecurityMirror:  apt.DefaultSecurityMirrorURL,
		SourcesPath:     apt.DefaultSourcesPath,
		PreferencesPath: apt.DefaultPreferencesPath,
	},
	Gpu: GpuConfig{
		Vendor: GpuVendorAuto,
	},
	Network: NetworkConfig{
		ManageIfupdownDevices: true,
		RestartService:        true,
	},
	Theme: ThemeConfig{
		GtkTheme:             "Arc-Dark",
		IconTheme:            "Papirus-Dark",
		ApplyToExistingUsers: true,
	},
	Refresh: RefreshConfig{
		Schedule: cronspec.DefaultRefreshSchedule,
	},
}

// Initialize loads the configuration from the specified file. An empty path
// keeps the built-in defaults.
func Initialize(path string) error {
	if path != "" {
		globalConfig = Config{}
		viper.Reset()
		viper.SetConfigFile(path)
		viper.SetEnvPrefix("DESKSTRAP")
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		err := viper.ReadInConfig()
		if err != nil {
			return NotFoundError.Wrap(err, "failed to read config file: %s", path).
				WithProperty(errorx.PropertyPayload(), path)
		}

		if err := viper.Unmarshal(&globalConfig); err != nil {
			return errorx.IllegalFormat.Wrap(err, "failed to parse configuration").
				WithProperty(errorx.PropertyPayload(), path)
		}
	}

	return globalConfig.Validate()
}

// Get returns the loaded configuration.
func Get() Config {
	return globalConfig
}

func Set(c *Config) error {
	globalConfig = *c
	return nil
}

// OverrideRefreshConfig updates the refresh configuration with provided
// overrides. Empty string values are ignored (not applied).
func OverrideRefreshConfig(overrides RefreshConfig) {
	if overrides.Schedule != "" {
		globalConfig.Refresh.Schedule = overrides.Schedule
	}
}

// OverrideThemeConfig updates the theme configuration with provided
// overrides. Empty string values are ignored (not applied).
func OverrideThemeConfig(overrides ThemeConfig) {
	if overrides.GtkTheme != "" {
		globalConfig.Theme.GtkTheme = overrides.GtkTheme
	}
	if overrides.IconTheme != "" {
		globalConfig.Theme.IconTheme = overrides.IconTheme
	}
}

// OverrideGpuConfig updates the gpu configuration with provided overrides.
// Empty string values are ignored (not applied).
func OverrideGpuConfig(overrides GpuConfig) {
	if overrides.Vendor != "" {
		globalConfig.Gpu.Vendor = overrides.Vendor
	}
}
