// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"strings"
	"time"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"

	"github.com/deskstrap/deskstrap/internal/state"
	"github.com/deskstrap/deskstrap/internal/workflows/notify"
	"github.com/deskstrap/deskstrap/pkg/apt"
	"github.com/deskstrap/deskstrap/pkg/debver"
	"github.com/deskstrap/deskstrap/pkg/detect"
)

// lockTarget pairs a version lock group with the function deriving the
// pinned prefix from a candidate version: major.minor for the kernel, major
// for the desktop shell.
type lockTarget struct {
	lock   apt.VersionLock
	prefix func(version string) (string, error)
}

func refreshLockTargets() []lockTarget {
	return []lockTarget{
		{lock: apt.KernelLock(""), prefix: detect.MajorMinor},
		{lock: apt.DesktopShellLock(""), prefix: detect.Major},
	}
}


// newRefreshPolicyClient builds the package-index client the refresher
// queries. Tests substitute a client with a canned command runner.
var newRefreshPolicyClient = func(queryTimeout time.Duration) *apt.PolicyClient {
	return apt.NewPolicyClient(
		apt.WithQueryTimeout(queryTimeout),
		apt.WithPolicyLogger(*logx.As()),
	)
}

// RefreshVersionPins moves the version locks in the preferences file forward
// to the current candidate versions from the package index. All index
// queries complete before the file is mutated, and the rewrite itself is a
// single locked load-mutate-store cycle, so a failed query never leaves a
// half-updated file: a lock whose candidate cannot be resolved fails the
// whole run with every pin unchanged.
func RefreshVersionPins(preferencesPath string, queryTimeout time.Duration) automa.Builder {
	return automa.NewStepBuilder().WithId("refresh-version-pins").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			store, err := apt.NewPreferencesStore(preferencesPath)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			prefs, err := store.Load(ctx)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			policy := newRefreshPolicyClient(queryTimeout)

			// resolve every candidate before touching the file
			versions := debver.NewCache()
			updates := map[string]string{}
			lockNames := map[string]string{}
			var skipped []string

			for _, target := range refreshLockTargets() {
				stanza, found := prefs.FindVersionLock(target.lock.Pattern)
				if !found {
					skipped = append(skipped, target.lock.Name)
					logx.As().Warn().
						Str("lock", target.lock.Name).
						Str("pattern", target.lock.Pattern).
						Msg("Version lock missing from preferences file, skipping")
					continue
				}

				// a failed lookup aborts the run before any rewrite, so the
				// file can never end up with one lock moved and one stale
				candidate, err := policy.CandidateVersion(ctx, target.lock.QueryPackage)
				if err != nil {
					logx.As().Error().Err(err).
						Str("lock", target.lock.Name).
						Str("package", target.lock.QueryPackage).
						Msg("Candidate lookup failed, aborting refresh with all pins unchanged")
					return automa.FailureReport(stp, automa.WithError(err))
				}

				upstream, err := debver.UpstreamVersion(candidate)
				if err != nil {
					return automa.FailureReport(stp, automa.WithError(err))
				}

				newPrefix, err := target.prefix(upstream)
				if err != nil {
					return automa.FailureReport(stp, automa.WithError(err))
				}

				current, _ := stanza.VersionConstraint()
				if current == newPrefix {
					continue
				}

				// a lock only moves forward; an index serving an older
				// candidate keeps the current pin
				if current != "" {
					if cmp, err := versions.Compare(newPrefix, current); err == nil && cmp < 0 {
						skipped = append(skipped, target.lock.Name)
						logx.As().Warn().
							Str("lock", target.lock.Name).
							Str("current", current).
							Str("candidate", newPrefix).
							Msg("Candidate version is older than the current pin, keeping current pin")
						continue
					}
				}

				updates[target.lock.Pattern] = newPrefix
				lockNames[target.lock.Pattern] = target.lock.Name
			}

			meta := map[string]string{
				"preferences_path": preferencesPath,
				"skipped_locks":    strings.Join(skipped, ", "),
			}

			if len(updates) == 0 {
				meta["changed"] = "false"
				logx.As().Info().Msg("Version pins are up to date")
				return automa.SuccessReport(stp, automa.WithMetadata(meta))
			}

			changed, err := store.Update(ctx, func(p *apt.Preferences) error {
				for pattern, version := range updates {
					if _, err := p.SetVersionLock(pattern, version); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			for pattern, version := range updates {
				if err := state.RecordLockVersion(lockNames[pattern], version); err != nil {
					logx.As().Warn().Err(err).
						Str("lock", lockNames[pattern]).
						Msg("Failed to record pinned version in the state file")
				}

				logx.As().Info().
					Str("lock", lockNames[pattern]).
					Str("version", version).
					Msg("Version lock moved forward")
			}

			if changed {
				meta["changed"] = "true"
			} else {
				meta["changed"] = "false"
			}

			return automa.SuccessReport(stp, automa.WithMetadata(meta))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Refreshing APT version pins")
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepCompletion(ctx, stp, report, "APT version pins refreshed")
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepFailure(ctx, stp, report, "Failed to refresh APT version pins")
		})
}
