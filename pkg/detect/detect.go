// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"github.com/docker/go-units"
)

// SystemMemoryInfo describes total and free physical memory in the system
type SystemMemoryInfo struct {
	TotalBytes uint64 `yaml:"total_bytes" json:"total_bytes"`
	FreeBytes  uint64 `yaml:"free_bytes" json:"free_bytes"`
}

// TotalStr returns the total physical memory as a human-readable approximation of the memory size
// capped at 4 valid numbers (e.g. "2.746 MB", "796 KB").
func (smi *SystemMemoryInfo) TotalStr() string {
	return units.HumanSize(float64(smi.TotalBytes))
}

// FreeStr returns the free physical memory as a human-readable approximation of the memory size
// capped at 4 valid numbers (e.g. "2.746 MB", "796 KB").
func (smi *SystemMemoryInfo) FreeStr() string {
	return units.HumanSize(float64(smi.FreeBytes))
}

// MemoryDetector provides interface to detect system memory
type MemoryDetector interface {
	// TotalMemory returns total system memory in bytes
	TotalMemory() (uint64, error)

	// FreeMemory returns total free memory in bytes
	FreeMemory() (uint64, error)
}

// MemoryManager defines various memory related functionalities
type MemoryManager interface {
	// GetSystemMemory returns total and free system memory in bytes
	GetSystemMemory() (SystemMemoryInfo, error)

	// HasTotalMemory checks if the system has the required amount of total physical memory
	HasTotalMemory(reqBytes uint64) error

	// HasFreeMemory checks if the system has the required amount of free physical memory
	HasFreeMemory(reqBytes uint64) error
}

// OSInfo defines the data model to contain OS related information
type OSInfo struct {
	Type         string
	Version      string
	Flavor       string
	CodeName     string
	Architecture string
}

// OSManager defines various OS related functionalities
type OSManager interface {
	// GetOSInfo returns OS related information
	GetOSInfo() (*OSInfo, error)
}

// OSDetector provides interface to detect OS related details
type OSDetector interface {
	ScanOS() (*OSInfo, error)
}
