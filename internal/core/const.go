package core

const (
	// BinaryName is the name the deskstrap executable installs itself under.
	BinaryName = "deskstrap"

	DefaultFilePerm      = 0o644
	DefaultDirOrExecPerm = 0o755
)

var (
	DeskstrapHomeDir = "/opt/deskstrap"
	SystemBinDir     = "/usr/local/bin"
)
