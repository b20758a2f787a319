// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"testing"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/pcidb"
	"github.com/stretchr/testify/require"
)

func graphicsCard(vendorID, vendorName, productName string) *ghw.GraphicsCard {
	return &ghw.GraphicsCard{
		DeviceInfo: &ghw.PCIDevice{
			Vendor:  &pcidb.Vendor{ID: vendorID, Name: vendorName},
			Product: &pcidb.Product{Name: productName},
		},
	}
}

func TestDetector_PrimaryGPU(t *testing.T) {
	origQueryGPU := queryGPU
	defer func() { queryGPU = origQueryGPU }()

	testCases := []struct {
		name     string
		info     *ghw.GPUInfo
		err      error
		expected GPU
	}{
		{
			name: "discrete nvidia",
			info: &ghw.GPUInfo{GraphicsCards: []*ghw.GraphicsCard{
				graphicsCard("10de", "NVIDIA Corporation", "AD107 [GeForce RTX 4060]"),
			}},
			expected: GPU{Vendor: GPUVendorNvidia, VendorID: "10de", Product: "AD107 [GeForce RTX 4060]"},
		},
		{
			name: "discrete amd",
			info: &ghw.GPUInfo{GraphicsCards: []*ghw.GraphicsCard{
				graphicsCard("1002", "Advanced Micro Devices, Inc. [AMD/ATI]", "Navi 33 [Radeon RX 7600]"),
			}},
			expected: GPU{Vendor: GPUVendorAmd, VendorID: "1002", Product: "Navi 33 [Radeon RX 7600]"},
		},
		{
			name: "integrated intel",
			info: &ghw.GPUInfo{GraphicsCards: []*ghw.GraphicsCard{
				graphicsCard("8086", "Intel Corporation", "Raptor Lake-P [Iris Xe Graphics]"),
			}},
			expected: GPU{Vendor: GPUVendorOther, VendorID: "8086", Product: "Raptor Lake-P [Iris Xe Graphics]"},
		},
		{
			name: "integrated enumerates before discrete",
			info: &ghw.GPUInfo{GraphicsCards: []*ghw.GraphicsCard{
				graphicsCard("8086", "Intel Corporation", "Raptor Lake-P [Iris Xe Graphics]"),
				graphicsCard("10de", "NVIDIA Corporation", "AD107M [GeForce RTX 4060 Mobile]"),
			}},
			expected: GPU{Vendor: GPUVendorNvidia, VendorID: "10de", Product: "AD107M [GeForce RTX 4060 Mobile]"},
		},
		{
			name: "card without pci metadata",
			info: &ghw.GPUInfo{GraphicsCards: []*ghw.GraphicsCard{
				{DeviceInfo: nil},
			}},
			expected: GPU{Vendor: GPUVendorOther},
		},
		{
			name:     "no cards reported",
			info:     &ghw.GPUInfo{},
			expected: GPU{Vendor: GPUVendorOther},
		},
		{
			name:     "probe failure",
			err:      DetectionFailedError.New("mock pci probe error"),
			expected: GPU{Vendor: GPUVendorOther},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			queryGPU = func() (*ghw.GPUInfo, error) {
				return tc.info, tc.err
			}

			require.Equal(t, tc.expected, NewDetector().PrimaryGPU())
		})
	}
}

func TestDetect_ClassifyPCIVendor(t *testing.T) {
	req := require.New(t)

	req.Equal(GPUVendorNvidia, ClassifyPCIVendor("10de"))
	req.Equal(GPUVendorNvidia, ClassifyPCIVendor("10DE"))
	req.Equal(GPUVendorAmd, ClassifyPCIVendor("1002"))
	req.Equal(GPUVendorAmd, ClassifyPCIVendor("1022"))
	req.Equal(GPUVendorOther, ClassifyPCIVendor("8086"))
	req.Equal(GPUVendorOther, ClassifyPCIVendor(""))
}

func TestDetect_GPUVendorString(t *testing.T) {
	req := require.New(t)

	req.Equal("nvidia", GPUVendorNvidia.String())
	req.Equal("amd", GPUVendorAmd.String())
	req.Equal("other", GPUVendorOther.String())
	req.Equal("other", GPUVendor(42).String())
}
