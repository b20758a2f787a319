// SPDX-License-Identifier: Apache-2.0

// Package network configures NetworkManager as the single network
// configuration owner on the workstation.
package network

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path"
	"strings"

	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/internal/templates"
	"github.com/deskstrap/deskstrap/pkg/fsx"
)

const (
	// DropInDir is where NetworkManager reads configuration drop-ins.
	DropInDir = "/etc/NetworkManager/conf.d"
	// DropInFile is the deskstrap-owned drop-in file name.
	DropInFile = "10-deskstrap.conf"
	// InterfacesFile is the legacy ifupdown configuration file.
	InterfacesFile = "/etc/network/interfaces"
	// ServiceName is the systemd unit restarted after configuration changes.
	ServiceName = "NetworkManager.service"

	dropInTemplate = "files/network/10-deskstrap.conf"
)

// DropInPath returns the full path of the deskstrap NetworkManager drop-in.
func DropInPath() string {
	return path.Join(DropInDir, DropInFile)
}

// RenderDropIn renders the NetworkManager drop-in for the given settings.
func RenderDropIn(data templates.NetworkManagerData) (string, error) {
	return templates.Render(dropInTemplate, data)
}

// WriteDropIn atomically writes the deskstrap drop-in under DropInDir and
// returns its path.
func WriteDropIn(fileManager fsx.Manager, data templates.NetworkManagerData) (string, error) {
	content, err := RenderDropIn(data)
	if err != nil {
		return "", err
	}

	dst := DropInPath()
	if err := fileManager.ReplaceFile(dst, []byte(content), core.DefaultFilePerm); err != nil {
		return "", err
	}

	return dst, nil
}

// HasIfupdownInterfaces reports whether /etc/network/interfaces still defines
// non-loopback interfaces. Those stanzas keep NetworkManager from managing
// the devices until they are handed over.
func HasIfupdownInterfaces() (bool, error) {
	f, err := os.Open(InterfacesFile)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "iface ") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] != "lo" {
			return true, nil
		}
	}

	return false, scanner.Err()
}

// GetMachineIP retrieves the first non-loopback IPv4 address of the machine
func GetMachineIP() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		// check if the interface is up and not a loopback
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.IsLoopback() {
				continue
			}
			ip = ip.To4()
			if ip == nil {
				continue // not an ipv4 address
			}
			return ip.String(), nil
		}
	}
	return "", fmt.Errorf("no connected network interface found")
}
