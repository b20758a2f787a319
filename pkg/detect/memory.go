// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"math"
)

// memoryManager implements MemoryManager. The preflight hardware report uses
// it to surface total and free memory before provisioning starts.
type memoryManager struct {
	detector MemoryDetector
	logger   *zerolog.Logger
}

// MemoryManagerOption allows setting various option for memoryManager
type MemoryManagerOption = func(mm *memoryManager)

// WithSystemMemoryDetector allows injecting a MemoryDetector instance
func WithSystemMemoryDetector(detector MemoryDetector) MemoryManagerOption {
	return func(mm *memoryManager) {
		if detector != nil {
			mm.detector = detector
		}
	}
}

// WithMemoryManagerLogger allows injecting a logger instance for memory manager
func WithMemoryManagerLogger(logger *zerolog.Logger) MemoryManagerOption {
	return func(mm *memoryManager) {
		if logger != nil {
			mm.logger = logger
		}
	}
}

// NewMemoryManager returns an instance of MemoryManager
func NewMemoryManager(opts ...MemoryManagerOption) MemoryManager {
	mm := &memoryManager{
		detector: &systemMemoryDetector{},
		logger:   &nolog,
	}

	for _, opt := range opts {
		opt(mm)
	}

	return mm
}

// GetSystemMemory returns total and free system memory. The string forms are
// rounded to four significant digits (eg. "2.746GB", "796KB") since workstation
// sizing is discussed in gigabytes, not bytes.
func (mm *memoryManager) GetSystemMemory() (SystemMemoryInfo, error) {
	var err error
	var sm SystemMemoryInfo

	sm.TotalBytes, err = mm.detector.TotalMemory()
	if err != nil {
		return sm, err
	}

	sm.FreeBytes, err = mm.detector.FreeMemory()
	if err != nil {
		return sm, err
	}

	mm.logger.Info().
		Str(logFields.totalMemory, sm.TotalStr()).
		Str(logFields.freeMemory, sm.FreeStr()).
		Msg("Memory Check: System Memory Size Detected")

	return sm, nil
}

// HasTotalMemory checks if the system has the requested amount of total physical memory
func (mm *memoryManager) HasTotalMemory(reqBytes uint64) error {
	systemMemory, err := mm.GetSystemMemory()
	if err != nil {
		return errors.Wrap(err, "failed to retrieve system memory")
	}

	reqSize := HumanizeBytes(reqBytes)
	actualTotal := mm.deductReserve(systemMemory.TotalBytes, systemMemory)
	actualTotalStr := HumanizeBytes(actualTotal)
	if reqBytes <= actualTotal {
		mm.logger.Debug().
			Str(logFields.reqMemory, reqSize).
			Str(logFields.totalMemory, systemMemory.TotalStr()).
			Str(logFields.totalAfterReserve, actualTotalStr).
			Msg("Memory Check: Verified Required Memory Allocations Based on Total Physical Memory")
		return nil
	}

	return errors.Newf("required memory allocation of %q "+
		"exceeds currently available total physical memory of %q(with reserve %q)",
		reqSize, systemMemory.TotalStr(), actualTotalStr)
}

// HasFreeMemory checks if the system has the required amount of free physical memory
func (mm *memoryManager) HasFreeMemory(reqBytes uint64) error {
	systemMemory, err := mm.GetSystemMemory()
	if err != nil {
		return errors.Wrap(err, "failed to retrieve system memory information")
	}

	reqSize := HumanizeBytes(reqBytes)
	actualFree := mm.deductReserve(systemMemory.FreeBytes, systemMemory)
	actualFreeStr := HumanizeBytes(actualFree)
	if reqBytes <= actualFree {
		mm.logger.Debug().
			Str(logFields.reqMemory, reqSize).
			Str(logFields.totalMemory, systemMemory.TotalStr()).
			Str(logFields.freeMemory, systemMemory.FreeStr()).
			Str(logFields.freeAfterReserve, actualFreeStr).
			Msg("Memory Check: Verified Required Memory Allocations Based on Currently Available System Memory")
		return nil
	}

	return errors.Newf("required memory allocation of %q "+
		"exceeds currently available system memory of %q(with reserve %q)",
		reqSize, systemMemory.TotalStr(), actualFreeStr)
}

// deductReserve returns the size after deducting the reserved fraction
func (mm *memoryManager) deductReserve(memSize uint64, sm SystemMemoryInfo) uint64 {
	var reserveFrac float64
	smallSizeStr := HumanizeBytes(smallSystemMaxMemSize)

	if sm.TotalBytes <= smallSystemMaxMemSize {
		reserveFrac = smallSystemMemReserve
		mm.logger.Debug().
			Float64(logFields.reserveFrac, reserveFrac).
			Str(logFields.totalMemory, sm.TotalStr()).
			Str(logFields.smallSystemSizeLimit, smallSizeStr).
			Msg("Memory Check: Selected Small Reserve Memory Fraction (Total < Small System Mem Size Limit)")
	} else {
		reserveFrac = largeSystemMemReserve
		mm.logger.Debug().
			Float64(logFields.reserveFrac, reserveFrac).
			Str(logFields.totalMemory, sm.TotalStr()).
			Str(logFields.smallSystemSizeLimit, smallSizeStr).
			Msg("Memory Check: Selected Large Reserve Memory Fraction (Total > Small System Mem Size Limit)")
	}

	// calculate and convert reserve size into uint64
	reserveSize := uint64(math.Round(float64(memSize) * reserveFrac))

	return memSize - reserveSize
}
