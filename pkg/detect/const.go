package detect

const (
	// smallSystemMemReserve denotes 5% reserve of the total physical memory
	// for smaller systems we need to allocate a bit more in terms of percentage of the total memory
	smallSystemMemReserve = 0.05

	// largeSystemMemReserve denotes 2% reserve of the total physical memory
	// for larger systems 2% is large enough
	largeSystemMemReserve = 0.02

	// smallSystemMaxMemSize defines the lowest threshold that defines if a system is small
	smallSystemMaxMemSize = 34359738368 // 34Gb
)

// release ID to flavor. Debian is the only flavor the provisioner accepts,
// the rest exist so a preflight failure can name the distribution it found.
var linuxFlavorMapping = map[string]string{
	"debian": OSFlavorLinuxDebian,
	"ubuntu": OSFlavorLinuxUbuntu,
	"fedora": OSFlavorLinuxFedora,
	"centos": OSFlavorLinuxCentos,
	"rhel":   OSFlavorLinuxRhel,
	"sles":   OSFlavorLinuxSuse,
	"ol":     OSFlavorLinuxOracle,
}

const (
	LSBReleaseFileName = "lsb-release"
	OSReleaseFileName  = "os-release"

	EtcLSBReleasePath = "/etc/lsb-release"
	EtcOSReleasePath  = "/etc/os-release"

	OSFlavorUnknown = "unknown"

	OSFlavorLinuxDebian = "debian"
	OSFlavorLinuxUbuntu = "ubuntu"
	OSFlavorLinuxFedora = "fedora"
	OSFlavorLinuxCentos = "centos"
	OSFlavorLinuxRhel   = "rhel"
	OSFlavorLinuxSuse   = "suse"
	OSFlavorLinuxOracle = "oracle"
)
