// SPDX-License-Identifier: Apache-2.0

package steps

const (
	// CronFilePath is the cron.d file driving the unattended weekly pin
	// refresh.
	CronFilePath = "/etc/cron.d/deskstrap-pins"

	// GrubDefaultPath is the bootloader configuration edited by the GRUB
	// theme step.
	GrubDefaultPath = "/etc/default/grub"

	SysCtlBackupFilename = "sysctl.conf"

	KeyBackupFile    = "backup_file"
	KeyReloadedFiles = "reloaded_files"
	KeyCopiedFiles   = "copied_files"
	KeyRemovedFiles  = "removed_files"
	KeyWarnings      = "warnings"
)
