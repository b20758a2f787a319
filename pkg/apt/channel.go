// SPDX-License-Identifier: Apache-2.0

package apt

// Pin priorities for the release channels and for version-locked package
// groups. Invariants: testing > stable-backports > stable, so the rolling
// channel wins by default while packages missing from testing can still be
// pulled from stable; and LockPriority exceeds every channel priority,
// otherwise a version lock has no effect.
const (
	TestingPriority   = 990
	BackportsPriority = 500
	StablePriority    = 400
	LockPriority      = 1001
)

// Archive names as they appear in the Release files of the Debian mirrors.
const (
	ArchiveTesting   = "testing"
	ArchiveStable    = "stable"
	ArchiveBackports = "stable-backports"
)

// Channel is a named release stream of the Debian archive together with the
// pin priority assigned to it.
type Channel struct {
	Archive  string
	Priority int
}

// Stanza returns the preference stanza pinning every package of the channel
// at the channel's priority.
func (c Channel) Stanza() Stanza {
	return Stanza{
		Package:  "*",
		Pin:      ReleasePin(c.Archive),
		Priority: c.Priority,
	}
}

// DefaultChannels returns the channel set in descending priority order:
// testing, stable-backports, stable.
func DefaultChannels() []Channel {
	return []Channel{
		{Archive: ArchiveTesting, Priority: TestingPriority},
		{Archive: ArchiveBackports, Priority: BackportsPriority},
		{Archive: ArchiveStable, Priority: StablePriority},
	}
}
