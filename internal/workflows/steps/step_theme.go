// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"

	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/internal/templates"
	"github.com/deskstrap/deskstrap/internal/workflows/notify"
	"github.com/deskstrap/deskstrap/pkg/fsx"
	"github.com/deskstrap/deskstrap/pkg/security/principal"
)

const (
	skelDir          = "/etc/skel"
	dconfProfileDir  = "/etc/dconf/profile"
	dconfLocalDbDir  = "/etc/dconf/db/local.d"
	dconfKeyfileName = "00-deskstrap-theme"

	gtkSettingsTemplate  = "files/theme/settings.ini"
	dconfProfileTemplate = "files/theme/dconf-profile-user"
	dconfKeyfileTemplate = "files/theme/00-deskstrap-theme"
)

// gtkConfigDirs are the per-user GTK configuration directories that receive
// the rendered settings.ini, relative to a home directory.
var gtkConfigDirs = []string{".config/gtk-3.0", ".config/gtk-4.0"}

// ApplyGtkTheme writes the GTK theme settings for new users via /etc/skel,
// sets the system-wide GNOME defaults through a dconf keyfile, and
// optionally pushes the settings into the home directories of existing login
// users, preserving their ownership.
func ApplyGtkTheme(gtkTheme, iconTheme string, applyToExistingUsers bool) automa.Builder {
	var writtenFiles []string

	return automa.NewStepBuilder().WithId("apply-gtk-theme").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			mg, err := fsx.NewManager()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			themeData := templates.GtkSettingsData{GtkTheme: gtkTheme, IconTheme: iconTheme}

			settings, err := templates.Render(gtkSettingsTemplate, themeData)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			keyfile, err := templates.Render(dconfKeyfileTemplate, themeData)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			profile, err := templates.ReadAsString(dconfProfileTemplate)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			// defaults for users created after provisioning
			for _, dir := range gtkConfigDirs {
				target := filepath.Join(skelDir, dir, "settings.ini")
				if err := writeThemeFile(mg, target, settings); err != nil {
					return automa.FailureReport(stp, automa.WithError(err))
				}
				writtenFiles = append(writtenFiles, target)
			}

			// system-wide GNOME defaults through the local dconf database
			profilePath := filepath.Join(dconfProfileDir, "user")
			if err := writeThemeFile(mg, profilePath, profile); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			writtenFiles = append(writtenFiles, profilePath)

			keyfilePath := filepath.Join(dconfLocalDbDir, dconfKeyfileName)
			if err := writeThemeFile(mg, keyfilePath, keyfile); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			writtenFiles = append(writtenFiles, keyfilePath)

			if err := RunCmd("dconf", "update"); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to rebuild the dconf database")))
			}

			meta := map[string]string{
				"gtk_theme":  gtkTheme,
				"icon_theme": iconTheme,
			}

			if applyToExistingUsers {
				applied, err := applyThemeToLoginUsers(mg, settings)
				if err != nil {
					return automa.FailureReport(stp, automa.WithError(err))
				}
				writtenFiles = append(writtenFiles, applied...)
				meta["users_updated"] = strings.Join(applied, ", ")
			}

			return automa.SuccessReport(stp, automa.WithMetadata(meta))
		}).
		WithRollback(func(ctx context.Context, stp automa.Step) *automa.Report {
			if len(writtenFiles) == 0 {
				return automa.SkippedReport(stp, automa.WithDetail("no theme files were written by this step"))
			}

			mg, err := fsx.NewManager()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			for _, f := range writtenFiles {
				if err := mg.RemoveAll(f); err != nil {
					return automa.FailureReport(stp, automa.WithError(err))
				}
			}

			if err := RunCmd("dconf", "update"); err != nil {
				logx.As().Warn().Err(err).Msg("Failed to rebuild the dconf database during rollback")
			}

			return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{
				KeyRemovedFiles: strings.Join(writtenFiles, ", "),
			}))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Applying GTK theme %q with icon theme %q", gtkTheme, iconTheme)
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepCompletion(ctx, stp, report, "GTK theme applied")
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepFailure(ctx, stp, report, "Failed to apply GTK theme")
		})
}

func writeThemeFile(mg fsx.Manager, path, content string) error {
	if err := mg.CreateDirectory(filepath.Dir(path), true); err != nil {
		return err
	}
	return mg.ReplaceFile(path, []byte(content), core.DefaultFilePerm)
}

// applyThemeToLoginUsers writes the GTK settings into the home directory of
// every login user, keeping the new files owned by the user instead of root.
func applyThemeToLoginUsers(mg fsx.Manager, settings string) ([]string, error) {
	pm, err := principal.NewManager()
	if err != nil {
		return nil, err
	}

	users, err := pm.LoginUsers()
	if err != nil {
		return nil, err
	}

	var written []string
	for _, u := range users {
		home := u.HomeDir()
		if _, exists, err := mg.PathExists(home); err != nil || !exists {
			if err != nil {
				return written, err
			}
			logx.As().Warn().
				Str("user", u.Name()).
				Str("home", home).
				Msg("Login user has no home directory, skipping theme application")
			continue
		}

		owner, group, err := mg.ReadOwner(home)
		if err != nil {
			return written, err
		}

		for _, dir := range gtkConfigDirs {
			configDir := filepath.Join(home, dir)
			target := filepath.Join(configDir, "settings.ini")

			if err := writeThemeFile(mg, target, settings); err != nil {
				return written, err
			}

			// the directories may have been created by us as root
			if err := mg.WriteOwner(filepath.Join(home, ".config"), owner, group, true); err != nil {
				return written, err
			}

			written = append(written, target)
		}
	}

	return written, nil
}
