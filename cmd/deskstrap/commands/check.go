// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"time"

	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deskstrap/deskstrap/cmd/deskstrap/commands/common"
	"github.com/deskstrap/deskstrap/internal/config"
	"github.com/deskstrap/deskstrap/internal/network"
	"github.com/deskstrap/deskstrap/internal/state"
	"github.com/deskstrap/deskstrap/internal/workflows/steps"
	"github.com/deskstrap/deskstrap/pkg/apt"
	"github.com/deskstrap/deskstrap/pkg/cronspec"
	"github.com/deskstrap/deskstrap/pkg/detect"
	"github.com/deskstrap/deskstrap/pkg/fsx"
	"github.com/deskstrap/deskstrap/pkg/hardware"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report the host state relevant to workstation provisioning",
	Long:  "Probe the operating system, hardware, GPU and version pin state of this machine and print a report",
	RunE:  runCheck,
}

func init() {
	// check must work on a host where deskstrap is not installed yet
	common.SkipGlobalChecks(checkCmd)
}

func getCheckCmd() *cobra.Command {
	return checkCmd
}

type hostCheckReport struct {
	Os struct {
		Flavor       string `yaml:"flavor" json:"flavor"`
		Version      string `yaml:"version" json:"version"`
		CodeName     string `yaml:"codeName" json:"codeName"`
		Architecture string `yaml:"architecture" json:"architecture"`
	} `yaml:"os" json:"os"`
	Hardware struct {
		CpuCores      uint   `yaml:"cpuCores" json:"cpuCores"`
		TotalMemoryGb uint64 `yaml:"totalMemoryGb" json:"totalMemoryGb"`
		FreeMemory    string `yaml:"freeMemory,omitempty" json:"freeMemory,omitempty"`
		TotalDiskGb   uint64 `yaml:"totalDiskGb" json:"totalDiskGb"`
		GpuVendor     string `yaml:"gpuVendor" json:"gpuVendor"`
	} `yaml:"hardware" json:"hardware"`
	Kernel struct {
		MajorMinor string `yaml:"majorMinor" json:"majorMinor"`
	} `yaml:"kernel" json:"kernel"`
	DesktopShell struct {
		Major string `yaml:"major" json:"major"`
	} `yaml:"desktopShell" json:"desktopShell"`
	Network struct {
		MachineIp string `yaml:"machineIp" json:"machineIp"`
	} `yaml:"network" json:"network"`
	Pins struct {
		PreferencesPath   string            `yaml:"preferencesPath" json:"preferencesPath"`
		PreferencesExists bool              `yaml:"preferencesExists" json:"preferencesExists"`
		Locks             map[string]string `yaml:"locks" json:"locks"`
		LastRefreshedAt   string            `yaml:"lastRefreshedAt,omitempty" json:"lastRefreshedAt,omitempty"`
		RefreshScheduled  bool              `yaml:"refreshScheduled" json:"refreshScheduled"`
		NextRefreshAt     string            `yaml:"nextRefreshAt,omitempty" json:"nextRefreshAt,omitempty"`
	} `yaml:"pins" json:"pins"`
}

func buildHostCheckReport(cmd *cobra.Command) (*hostCheckReport, error) {
	cfg := config.Get()
	report := &hostCheckReport{}

	osInfo, err := detect.NewOSManager().GetOSInfo()
	if err != nil {
		return nil, err
	}
	report.Os.Flavor = osInfo.Flavor
	report.Os.Version = osInfo.Version
	report.Os.CodeName = osInfo.CodeName
	report.Os.Architecture = osInfo.Architecture

	hp := hardware.GetHostProfile()
	report.Hardware.CpuCores = hp.GetCPUCores()
	report.Hardware.TotalMemoryGb = hp.GetTotalMemoryGB()
	report.Hardware.TotalDiskGb = hp.GetTotalStorageGB()

	if sm, err := detect.NewMemoryManager(detect.WithMemoryManagerLogger(logx.As())).GetSystemMemory(); err == nil {
		report.Hardware.FreeMemory = sm.FreeStr()
	}

	detector := detect.NewDetector(detect.WithLogger(*logx.As()))
	report.Hardware.GpuVendor = detector.PrimaryGPU().Vendor.String()

	kernelVersion, err := detector.KernelMajorMinor()
	if err != nil {
		logx.As().Warn().Err(err).Msg("Failed to detect running kernel version")
	}
	report.Kernel.MajorMinor = kernelVersion
	report.DesktopShell.Major = detector.ShellMajor(cmd.Context())

	machineIp, err := network.GetMachineIP()
	if err != nil {
		logx.As().Warn().Err(err).Msg("Failed to detect machine IP")
	}
	report.Network.MachineIp = machineIp

	report.Pins.PreferencesPath = cfg.Apt.PreferencesPath
	store, err := apt.NewPreferencesStore(cfg.Apt.PreferencesPath)
	if err != nil {
		return nil, err
	}
	report.Pins.PreferencesExists = store.Exists()

	pinsState, err := state.LoadPinsState()
	if err != nil {
		return nil, err
	}
	report.Pins.Locks = pinsState.Locks
	if !pinsState.UpdatedAt.IsZero() {
		report.Pins.LastRefreshedAt = pinsState.UpdatedAt.Format(time.RFC3339)
	}

	mg, err := fsx.NewManager()
	if err != nil {
		return nil, err
	}
	_, cronExists, err := mg.PathExists(steps.CronFilePath)
	if err != nil {
		return nil, err
	}
	report.Pins.RefreshScheduled = cronExists
	if cronExists {
		next, err := cronspec.Next(cfg.Refresh.Schedule, time.Now())
		if err == nil {
			report.Pins.NextRefreshAt = next.Format(time.RFC3339)
		}
	}

	return report, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	report, err := buildHostCheckReport(cmd)
	if err != nil {
		return err
	}

	var out []byte
	switch flagOutputFormat {
	case "json":
		out, err = json.MarshalIndent(report, "", "  ")
	case "yaml", "":
		out, err = yaml.Marshal(report)
	default:
		return errorx.IllegalArgument.New("unsupported output format: %s", flagOutputFormat)
	}
	if err != nil {
		return errorx.IllegalState.Wrap(err, "failed to render host report")
	}

	cmd.Println(string(out))
	return nil
}
