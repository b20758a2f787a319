// SPDX-License-Identifier: Apache-2.0

package detect

import "github.com/rs/zerolog"

var nolog = zerolog.Nop()

const LogNameSpaceDetect = "detect"

var logFields = struct {
	minMemory            string
	minMemoryBytes       string
	maxMemory            string
	maxMemoryBytes       string
	totalMemory          string
	totalMemoryBytes     string
	freeMemory           string
	totalAfterReserve    string
	freeMemoryBytes      string
	systemMemory         string
	freeAfterReserve     string
	osType               string
	osVersion            string
	osCodename           string
	osFlavor             string
	osArch               string
	reserveFrac          string
	smallSystemSizeLimit string
	reqMemory            string
}{
	minMemory:            "min_memory",
	maxMemory:            "max_memory",
	totalMemory:          "total_memory",
	freeMemory:           "free_memory",
	minMemoryBytes:       "min_memory_bytes",
	maxMemoryBytes:       "max_memory_bytes",
	totalMemoryBytes:     "total_memory_bytes",
	freeMemoryBytes:      "free_memory_bytes",
	systemMemory:         "system_memory",
	totalAfterReserve:    "actual_total",
	freeAfterReserve:     "actual_free",
	osType:               "os_type",
	osVersion:            "os_version",
	osCodename:           "os_codename",
	osFlavor:             "os_flavor",
	osArch:               "os_architecture",
	reserveFrac:          "reserve_frac",
	smallSystemSizeLimit: "small_system_size_limit",
	reqMemory:            "req_memory",
}
