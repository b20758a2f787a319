//go:build integration

package os

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Test_Systemd_IsServiceRunning_Integration checks unit state queries against
// a unit every Debian system carries.
func Test_Systemd_IsServiceRunning_Integration(t *testing.T) {
	//
	// Given
	//
	if os.Geteuid() != 0 {
		t.Skip("This test requires root privileges")
	}

	ctx := context.Background()

	//
	// When
	//
	running, err := IsServiceRunning(ctx, "cron")

	//
	// Then
	//
	require.NoError(t, err)
	require.True(t, running, "cron should be running on a provisioned host")
}

func Test_Systemd_IsServiceEnabled_Integration(t *testing.T) {
	//
	// Given
	//
	if os.Geteuid() != 0 {
		t.Skip("This test requires root privileges")
	}

	ctx := context.Background()

	//
	// When
	//
	enabled, err := IsServiceEnabled(ctx, "cron")

	//
	// Then
	//
	require.NoError(t, err)
	require.True(t, enabled)
}

func Test_Systemd_RestartService_Integration(t *testing.T) {
	//
	// Given
	//
	if os.Geteuid() != 0 {
		t.Skip("This test requires root privileges")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	//
	// When
	//
	err := RestartService(ctx, "cron")

	//
	// Then
	//
	require.NoError(t, err)

	running, err := IsServiceRunning(ctx, "cron")
	require.NoError(t, err)
	require.True(t, running, "cron should be running again after restart")
}

// Test_Systemd_RestartService_Timeout_Integration tests context timeout
// handling for the synchronous restart wait.
func Test_Systemd_RestartService_Timeout_Integration(t *testing.T) {
	//
	// Given
	//
	if os.Geteuid() != 0 {
		t.Skip("This test requires root privileges")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
	defer cancel()

	time.Sleep(10 * time.Millisecond) // Ensure timeout

	//
	// When
	//
	err := RestartService(ctx, "cron")

	//
	// Then
	//
	require.Error(t, err)
}
