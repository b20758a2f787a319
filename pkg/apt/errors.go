// SPDX-License-Identifier: Apache-2.0

package apt

import (
	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace = errorx.NewNamespace("apt")

	// MalformedPreferencesError indicates the preferences file could not be
	// parsed into stanzas.
	MalformedPreferencesError = ErrorsNamespace.NewType("malformed_preferences")

	// PreferencesNotFoundError indicates the preferences file does not exist
	// yet; callers typically respond by running the initial pin setup.
	PreferencesNotFoundError = ErrorsNamespace.NewType("preferences_not_found", errorx.NotFound())

	// PriorityInvariantError indicates a preference set in which a version
	// lock no longer outranks every channel, which would silently disable
	// the lock.
	PriorityInvariantError = ErrorsNamespace.NewType("priority_invariant_violated")

	// NoCandidateError indicates the package index has no candidate version
	// for a queried package.
	NoCandidateError = ErrorsNamespace.NewType("no_candidate_version", errorx.NotFound())

	// LockTimeoutError indicates the preferences file lock could not be
	// acquired within the configured timeout.
	LockTimeoutError = ErrorsNamespace.NewType("lock_timeout", errorx.Timeout())

	// InvalidSourceError indicates a repository entry that cannot be
	// rendered into sources.list.
	InvalidSourceError = ErrorsNamespace.NewType("invalid_source_entry")
)

var (
	packageProperty = errorx.RegisterPrintableProperty("package")
	lineProperty    = errorx.RegisterPrintableProperty("line")
)
