// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"github.com/docker/go-units"
	"strings"
)

// HumanizeBytes returns the total memory as a human-readable approximation of the memory size
// capped at 4 valid numbers (e.g. "2.746 MB", "796 KB").
func HumanizeBytes(size uint64) string {
	return units.HumanSize(float64(size))
}

// ParseMemorySizeInBytes parses memory size string into a bytes.
//
// It accepts unit specifiers such as: g/gb/G/GB, m/mb/M/MB, k/kb/K/KB, t/tb/T/TB, or p/pb/P/PB that is supported by
// https://github.com/docker/go-units.
func ParseMemorySizeInBytes(memSize string) (uint64, error) {
	s := strings.ToLower(strings.TrimSpace(memSize))
	byteSize, err := units.FromHumanSize(s)
	if err != nil {
		return 0, err
	}

	return uint64(byteSize), err
}
