// SPDX-License-Identifier: Apache-2.0

package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	data, err := Read("files/sysctl/99-deskstrap-desktop.conf")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	_, err = Read("")
	require.Error(t, err)

	_, err = Read("files/does-not-exist")
	require.Error(t, err)
}

func TestReadAsString(t *testing.T) {
	content, err := ReadAsString("files/theme/dconf-profile-user")
	require.NoError(t, err)
	require.Contains(t, content, "user-db:user")
}

func TestReadDir(t *testing.T) {
	files, err := ReadDir("files/theme")
	require.NoError(t, err)
	require.Len(t, files, 3)
	for _, f := range files {
		require.True(t, strings.HasPrefix(f, "files/theme/"))
	}

	_, err = ReadDir("")
	require.Error(t, err)
}

func TestRenderGtkSettings(t *testing.T) {
	out, err := Render("files/theme/settings.ini", GtkSettingsData{
		GtkTheme:  "Arc-Dark",
		IconTheme: "Papirus-Dark",
	})
	require.NoError(t, err)
	require.Contains(t, out, "gtk-theme-name=Arc-Dark")
	require.Contains(t, out, "gtk-icon-theme-name=Papirus-Dark")
}

func TestRenderCronEntry(t *testing.T) {
	out, err := Render("files/cron/deskstrap-pins", CronJobData{
		Schedule:   "0 7 * * 1",
		BinaryPath: "/opt/deskstrap/bin/deskstrap",
		LogPath:    "/opt/deskstrap/logs/pins_refresh.log",
	})
	require.NoError(t, err)
	require.Contains(t, out, "0 7 * * 1 root /opt/deskstrap/bin/deskstrap pins refresh")
	require.Contains(t, out, ">>/opt/deskstrap/logs/pins_refresh.log 2>&1")
	require.NotContains(t, out, "/dev/null")
}

func TestRenderNetworkManagerDropIn(t *testing.T) {
	out, err := Render("files/network/10-deskstrap.conf", NetworkManagerData{
		ManageIfupdownDevices: true,
	})
	require.NoError(t, err)
	require.Contains(t, out, "managed=true")
	require.Contains(t, out, "plugins=ifupdown,keyfile")
}
