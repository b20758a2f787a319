// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"os"
	"strings"
	"sync"

	"github.com/jaypipes/ghw"
)

// PCI vendor identifiers as registered with the PCI-SIG.
const (
	pciVendorNvidia = "10de"
	pciVendorATI    = "1002"
	pciVendorAMD    = "1022"
)

// GPUVendor classifies a graphics adapter by the driver stack it needs.
type GPUVendor int

const (
	// GPUVendorOther covers integrated and virtual adapters that run on
	// in-kernel drivers and need no extra packages.
	GPUVendorOther GPUVendor = iota
	GPUVendorNvidia
	GPUVendorAmd
)

func (v GPUVendor) String() string {
	switch v {
	case GPUVendorNvidia:
		return "nvidia"
	case GPUVendorAmd:
		return "amd"
	default:
		return "other"
	}
}

// GPU describes a detected graphics adapter.
type GPU struct {
	Vendor   GPUVendor
	VendorID string
	Product  string
}

var ghwOnce sync.Once

func suppressGHWWarnings() {
	ghwOnce.Do(func() {
		os.Setenv("GHW_DISABLE_WARNINGS", "1")
	})
}

// queryGPU wraps the hardware probe. Overridable for tests.
var queryGPU = func() (*ghw.GPUInfo, error) {
	suppressGHWWarnings()
	return ghw.GPU()
}

// PrimaryGPU probes the PCI bus once and classifies the graphics adapters
// found. When a machine carries both an integrated and a discrete adapter the
// one needing a vendor driver wins. Probe failures and empty results classify
// as GPUVendorOther: a machine without a discrete GPU needs no vendor driver.
func (d *Detector) PrimaryGPU() GPU {
	info, err := queryGPU()
	if err != nil {
		d.log.Warn().Err(err).Msg("GPU probe failed, assuming no vendor driver is needed")
		return GPU{Vendor: GPUVendorOther}
	}

	primary := GPU{Vendor: GPUVendorOther}
	seen := false
	for _, card := range info.GraphicsCards {
		if card == nil || card.DeviceInfo == nil || card.DeviceInfo.Vendor == nil {
			continue
		}

		gpu := GPU{
			Vendor:   ClassifyPCIVendor(card.DeviceInfo.Vendor.ID),
			VendorID: card.DeviceInfo.Vendor.ID,
		}
		if card.DeviceInfo.Product != nil {
			gpu.Product = card.DeviceInfo.Product.Name
		}

		if !seen || (primary.Vendor == GPUVendorOther && gpu.Vendor != GPUVendorOther) {
			primary = gpu
			seen = true
		}
	}

	if !seen {
		d.log.Warn().Msg("No graphics adapter reported, assuming no vendor driver is needed")
		return primary
	}

	d.log.Debug().
		Str("vendor", primary.Vendor.String()).
		Str("vendor_id", primary.VendorID).
		Str("product", primary.Product).
		Msg("Detected graphics adapter")
	return primary
}

// ClassifyPCIVendor maps a PCI vendor identifier to the driver stack family.
func ClassifyPCIVendor(id string) GPUVendor {
	switch strings.ToLower(id) {
	case pciVendorNvidia:
		return GPUVendorNvidia
	case pciVendorATI, pciVendorAMD:
		return GPUVendorAmd
	default:
		return GPUVendorOther
	}
}
