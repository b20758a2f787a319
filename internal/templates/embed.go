// SPDX-License-Identifier: Apache-2.0

package templates

import (
	"embed"
)

//go:embed files/*
var Files embed.FS

// GtkSettingsData feeds the GTK settings.ini and dconf keyfile templates.
type GtkSettingsData struct {
	GtkTheme  string
	IconTheme string
}

// CronJobData feeds the cron.d entry template for the weekly pin refresh.
// LogPath is the file the job's combined output is appended to, so an
// unattended failure always leaves a trace.
type CronJobData struct {
	Schedule   string
	BinaryPath string
	LogPath    string
}

// NetworkManagerData feeds the NetworkManager drop-in template.
type NetworkManagerData struct {
	ManageIfupdownDevices bool
}
