// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"github.com/pbnjay/memory"
)

// systemMemoryDetector reads physical memory sizes from the host. It wraps
// "github.com/pbnjay/memory" behind the MemoryDetector interface so tests can
// substitute fixed sizes.
type systemMemoryDetector struct {
}

// TotalMemory returns total memory in bytes
// If accessible memory size could not be determined, then 0 is returned.
func (smd *systemMemoryDetector) TotalMemory() (uint64, error) {
	return memory.TotalMemory(), nil
}

// FreeMemory returns free memory in bytes
// If accessible memory size could not be determined, then 0 is returned.
func (smd *systemMemoryDetector) FreeMemory() (uint64, error) {
	return memory.FreeMemory(), nil
}
