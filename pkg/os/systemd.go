// SPDX-License-Identifier: Apache-2.0

package os

import (
	"context"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"
)

// RestartService restarts the specified service.
// This function waits until the service is fully started.
// It is equivalent to running "systemctl restart <service>".
// The service name can be provided with or without the .service suffix.
func RestartService(ctx context.Context, name string) error {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return ErrSystemdConnection.Wrap(err, "failed to connect to systemd")
	}
	defer conn.Close()

	serviceName := ensureServiceSuffix(name)

	// Make this call synchronous and wait until the unit is started.
	jobChan := make(chan string, 1) // buffered channel to avoid goroutine leaks

	// The second parameter 'replace' means to replace any existing job for the unit.
	_, err = conn.RestartUnitContext(ctx, serviceName, "replace", jobChan)
	if err != nil {
		return ErrSystemdOperation.Wrap(err, "failed to restart service %s", serviceName).
			WithProperty(ServiceProperty, serviceName)
	}

	select {
	case result := <-jobChan:
		if result != "done" {
			return ErrSystemdOperation.New("service %s restart failed: %s", serviceName, result).
				WithProperty(ServiceProperty, serviceName).
				WithProperty(JobResultProperty, result)
		}
		return nil

	case <-ctx.Done():
		return ErrSystemdOperation.Wrap(ctx.Err(), "timeout waiting for service %s to restart", serviceName).
			WithProperty(ServiceProperty, serviceName)
	}
}

// EnableService enables the specified service.
// It is equivalent to running "systemctl enable <service>".
// The service name can be provided with or without the .service suffix.
func EnableService(ctx context.Context, name string) error {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return ErrSystemdConnection.Wrap(err, "failed to connect to systemd")
	}
	defer conn.Close()

	serviceName := ensureServiceSuffix(name)

	// The second parameter 'false' means not to enable for runtime only, but rather persistently.
	// The third parameter 'true' means to force overwrite existing symlinks.
	_, _, err = conn.EnableUnitFilesContext(ctx, []string{serviceName}, false, true)
	if err != nil {
		return ErrSystemdOperation.Wrap(err, "failed to enable service %s", serviceName).
			WithProperty(ServiceProperty, serviceName)
	}

	return nil
}

// IsServiceEnabled checks if the specified service is enabled.
// The service name can be provided with or without the .service suffix.
func IsServiceEnabled(ctx context.Context, name string) (bool, error) {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return false, ErrSystemdConnection.Wrap(err, "failed to connect to systemd")
	}
	defer conn.Close()

	serviceName := ensureServiceSuffix(name)

	unitFiles, err := conn.ListUnitFilesByPatternsContext(ctx, []string{}, []string{serviceName})
	if err != nil {
		return false, err
	}

	if len(unitFiles) == 0 {
		return false, nil
	}

	return unitFiles[0].Type == "enabled", nil
}

// IsServiceRunning checks if the specified service is running.
// The service name can be provided with or without the .service suffix.
func IsServiceRunning(ctx context.Context, name string) (bool, error) {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return false, ErrSystemdConnection.Wrap(err, "failed to connect to systemd")
	}
	defer conn.Close()

	serviceName := ensureServiceSuffix(name)

	props, err := conn.GetUnitPropertiesContext(ctx, serviceName)
	if err != nil {
		return false, err
	}

	return props["ActiveState"] == "active", nil
}

// ensureServiceSuffix ensures the service name has the .service suffix.
// If the name already has the suffix, it returns it unchanged.
func ensureServiceSuffix(name string) string {
	if !strings.HasSuffix(name, ".service") {
		return name + ".service"
	}
	return name
}
