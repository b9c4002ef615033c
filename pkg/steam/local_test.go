// LaunchOpts Core
// Copyright (c) 2026 The LaunchOpts Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LaunchOpts Core.
//
// LaunchOpts Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LaunchOpts Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LaunchOpts Core.  If not, see <http://www.gnu.org/licenses/>.

package steam_test

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/LaunchOptsProject/launchopts-core/internal/vdfbinary"
	"github.com/LaunchOptsProject/launchopts-core/pkg/config"
	"github.com/LaunchOptsProject/launchopts-core/pkg/steam"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSteamDir = "/steam"

// Mixed key casing on purpose, Valve's own tools disagree on it.
const testLocalConfig = `"UserLocalConfigStore"
{
	"Software"
	{
		"valve"
		{
			"Steam"
			{
				"apps"
				{
					"440"
					{
						"LaunchOptions"		"-novid"
					}
					"730"
					{
						"BadgeData"		"0"
					}
				}
			}
		}
	}
}
`

const testShortcutAppID = uint32(3022575626)

func testShortcuts(t *testing.T) []byte {
	t.Helper()
	root := vdfbinary.NewMap(vdfbinary.Map{
		"shortcuts": vdfbinary.NewMap(vdfbinary.Map{
			"0": vdfbinary.NewMap(vdfbinary.Map{
				"appid":         vdfbinary.NewUint(testShortcutAppID),
				"AppName":       vdfbinary.NewString("Cyberpunk 2077"),
				"Exe":           vdfbinary.NewString("\"/games/Cyberpunk2077.exe\""),
				"StartDir":      vdfbinary.NewString("\"/games/\""),
				"LaunchOptions": vdfbinary.NewString("-skipStartScreen"),
			}),
		}),
	})
	var buf bytes.Buffer
	require.NoError(t, vdfbinary.Write(&buf, root))
	return buf.Bytes()
}

func newTestClient(t *testing.T) (*steam.LocalClient, afero.Fs) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	configDir := filepath.Join(testSteamDir, "userdata", "1001", "config")
	require.NoError(t, afero.WriteFile(fsys,
		filepath.Join(configDir, "localconfig.vdf"), []byte(testLocalConfig), 0o644))
	require.NoError(t, afero.WriteFile(fsys,
		filepath.Join(configDir, "shortcuts.vdf"), testShortcuts(t), 0o644))

	cfg, err := config.NewConfig(t.TempDir(), config.Values{
		ConfigSchema: config.SchemaVersion,
		Steam:        config.Steam{InstallDir: testSteamDir},
	})
	require.NoError(t, err)

	return steam.NewLocalClient(fsys, cfg), fsys
}

func awaitDetails(t *testing.T, req *steam.DetailsRequest) steam.AppDetails {
	t.Helper()
	select {
	case details := <-req.Done():
		return details
	case <-time.After(5 * time.Second):
		t.Fatal("details request did not resolve")
		return steam.AppDetails{}
	}
}

func TestAppDetailsOfficialApp(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	req, err := client.AppDetails("440")
	require.NoError(t, err)
	assert.Equal(t, "-novid", awaitDetails(t, req).LaunchOptions)

	// App present but without stored options.
	req, err = client.AppDetails("730")
	require.NoError(t, err)
	assert.Empty(t, awaitDetails(t, req).LaunchOptions)

	// Unknown apps resolve with empty options too.
	req, err = client.AppDetails("570")
	require.NoError(t, err)
	assert.Empty(t, awaitDetails(t, req).LaunchOptions)
}

func TestAppDetailsShortcut(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	req, err := client.AppDetails("3022575626")
	require.NoError(t, err)
	assert.Equal(t, "-skipStartScreen", awaitDetails(t, req).LaunchOptions)
}

func TestAppDetailsInvalidAppID(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	_, err := client.AppDetails("not-a-number")
	assert.Error(t, err)
}

func TestSetLaunchOptionsOfficialApp(t *testing.T) {
	t.Parallel()
	client, fsys := newTestClient(t)

	require.NoError(t, client.SetLaunchOptions("440", "gamemoderun %command% -novid"))

	req, err := client.AppDetails("440")
	require.NoError(t, err)
	assert.Equal(t, "gamemoderun %command% -novid", awaitDetails(t, req).LaunchOptions)

	// Existing key casing is preserved on write-back.
	data, err := afero.ReadFile(fsys,
		filepath.Join(testSteamDir, "userdata", "1001", "config", "localconfig.vdf"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"valve"`)
	assert.NotContains(t, string(data), "localconfig.vdf.tmp")
}

func TestSetLaunchOptionsCreatesAppEntry(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	require.NoError(t, client.SetLaunchOptions("570", "-console"))

	req, err := client.AppDetails("570")
	require.NoError(t, err)
	assert.Equal(t, "-console", awaitDetails(t, req).LaunchOptions)
}

func TestSetLaunchOptionsShortcut(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	require.NoError(t, client.SetLaunchOptions("3022575626", "mangohud %command%"))

	req, err := client.AppDetails("3022575626")
	require.NoError(t, err)
	assert.Equal(t, "mangohud %command%", awaitDetails(t, req).LaunchOptions)
}

func TestSetLaunchOptionsUnknownShortcut(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	// 2147483649 is in the shortcut id range but has no entry.
	err := client.SetLaunchOptions("2147483649", "-x")
	assert.ErrorIs(t, err, steam.ErrShortcutNotFound)
}

func TestHookChaining(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	var first, second []string
	prev := client.HookGameActionStart(func(_ uint64, appID, action string) {
		first = append(first, appID+":"+action)
	})
	assert.Nil(t, prev)

	prev = client.HookGameActionStart(func(id uint64, appID, action string) {
		second = append(second, appID)
		prev(id, appID, action)
	})
	require.NotNil(t, prev)

	client.DispatchGameActionStart(1, "440", "LaunchApp")
	assert.Equal(t, []string{"440:LaunchApp"}, first)
	assert.Equal(t, []string{"440"}, second)
}

func TestDispatchWithoutHooks(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	// Must not panic.
	client.DispatchGameActionStart(1, "440", "LaunchApp")
	client.DispatchGameActionTask(2, "CreatingProcess")
}

func TestUserConfigDirPicksNewestUser(t *testing.T) {
	t.Parallel()
	client, fsys := newTestClient(t)

	// A second account with a more recently touched localconfig.vdf
	// becomes the active one.
	otherConfig := filepath.Join(testSteamDir, "userdata", "2002", "config")
	other := `"UserLocalConfigStore"
{
	"Software"
	{
		"Valve"
		{
			"Steam"
			{
				"apps"
				{
					"440"
					{
						"LaunchOptions"		"-other-user"
					}
				}
			}
		}
	}
}
`
	path := filepath.Join(otherConfig, "localconfig.vdf")
	require.NoError(t, afero.WriteFile(fsys, path, []byte(other), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, fsys.Chtimes(path, future, future))

	req, err := client.AppDetails("440")
	require.NoError(t, err)
	assert.Equal(t, "-other-user", awaitDetails(t, req).LaunchOptions)
}

func TestFindSteamDir(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := steam.FindSteamDir(fsys, "")
	assert.ErrorIs(t, err, steam.ErrSteamNotFound)

	// Configured directory wins when it exists.
	require.NoError(t, fsys.MkdirAll("/custom/steam", 0o755))
	dir, err := steam.FindSteamDir(fsys, "/custom/steam")
	require.NoError(t, err)
	assert.Equal(t, "/custom/steam", dir)

	// Probed locations are relative to the home directory.
	t.Setenv("HOME", "/home/deck")
	require.NoError(t, fsys.MkdirAll("/home/deck/.local/share/Steam", 0o755))
	dir, err = steam.FindSteamDir(fsys, "")
	require.NoError(t, err)
	assert.Equal(t, "/home/deck/.local/share/Steam", dir)
}

func TestDetailsRequestCancelDropsLateDelivery(t *testing.T) {
	t.Parallel()

	unregistered := false
	req := steam.NewDetailsRequest(func() { unregistered = true })
	req.Cancel()
	assert.True(t, unregistered)

	// Late delivery after cancel never reaches Done.
	req.Deliver(steam.AppDetails{LaunchOptions: "-late"})
	select {
	case <-req.Done():
		t.Fatal("cancelled request should not resolve")
	default:
	}
}

func TestDetailsRequestDeliverUnregisters(t *testing.T) {
	t.Parallel()

	unregistered := false
	req := steam.NewDetailsRequest(func() { unregistered = true })
	req.Deliver(steam.AppDetails{LaunchOptions: "-novid"})
	assert.True(t, unregistered)

	details := <-req.Done()
	assert.Equal(t, "-novid", details.LaunchOptions)

	// Cancel after delivery is a no-op.
	req.Cancel()
}
