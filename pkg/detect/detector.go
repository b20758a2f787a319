// SPDX-License-Identifier: Apache-2.0

// Package detect reads version and hardware facts from the live system: the
// running kernel release, the installed desktop-shell version and the GPU
// vendor. Each detector is a single query against the operating system.
package detect

import (
	"github.com/rs/zerolog"
)

// Detector answers the live-system queries provisioning and pin maintenance
// depend on.
type Detector struct {
	log zerolog.Logger
}

type Option func(*Detector)

// WithLogger attaches a logger to the detector.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Detector) {
		d.log = log
	}
}

// NewDetector returns a live-system detector.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		log: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}
