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

package steam

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/LaunchOptsProject/launchopts-core/internal/vdfbinary"
	"github.com/LaunchOptsProject/launchopts-core/internal/vdftext"
	"github.com/andygrunwald/vdf"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// FlatpakSteamID is the Flatpak app ID for Steam.
const FlatpakSteamID = "com.valvesoftware.Steam"

var (
	// ErrSteamNotFound means no Steam installation could be located.
	ErrSteamNotFound = errors.New("steam installation not found")
	// ErrNoSteamUser means the installation has no usable userdata directory.
	ErrNoSteamUser = errors.New("no steam user data found")
	// ErrShortcutNotFound means shortcuts.vdf has no entry for the app id.
	ErrShortcutNotFound = errors.New("shortcut not found")
)

// FindSteamDir locates the Steam installation directory. A user-configured
// directory takes priority, then the common native, Flatpak and Snap
// install locations are probed.
func FindSteamDir(fsys afero.Fs, installDir string) (string, error) {
	if installDir != "" {
		if _, err := fsys.Stat(installDir); err == nil {
			log.Debug().Msgf("using user-configured Steam directory: %s", installDir)
			return installDir, nil
		}
		log.Warn().Msgf("user-configured Steam directory not found: %s", installDir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	paths := []string{
		filepath.Join(home, ".steam", "steam"),
		filepath.Join(home, ".local", "share", "Steam"),
		filepath.Join(home, ".var", "app", FlatpakSteamID, ".steam", "steam"),
		filepath.Join(home, "snap", "steam", "common", ".steam", "steam"),
		"/usr/games/steam",
		"/opt/steam",
	}

	for _, path := range paths {
		if _, err := fsys.Stat(path); err == nil {
			log.Debug().Msgf("found Steam installation: %s", path)
			return path, nil
		}
	}

	return "", ErrSteamNotFound
}

// userConfigDir returns the config directory of the active Steam user.
// With multiple accounts on one machine, the one whose localconfig.vdf
// was modified most recently is treated as active.
func (c *LocalClient) userConfigDir() (string, error) {
	steamDir, err := FindSteamDir(c.fs, c.cfg.SteamInstallDir())
	if err != nil {
		return "", err
	}

	userdataDir := filepath.Join(steamDir, "userdata")
	entries, err := afero.ReadDir(c.fs, userdataDir)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", userdataDir, err)
	}

	var (
		newest     string
		newestTime time.Time
	)
	for _, entry := range entries {
		// Account dirs are numeric, "0" is Steam's anonymous placeholder.
		if !entry.IsDir() || entry.Name() == "0" {
			continue
		}
		if _, err := strconv.ParseUint(entry.Name(), 10, 32); err != nil {
			continue
		}

		configDir := filepath.Join(userdataDir, entry.Name(), "config")
		info, err := c.fs.Stat(filepath.Join(configDir, "localconfig.vdf"))
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = configDir
			newestTime = info.ModTime()
		}
	}

	if newest == "" {
		return "", ErrNoSteamUser
	}
	return newest, nil
}

// localConfigLaunchOptions reads the stored launch options for an official
// app from localconfig.vdf. An app with no stored options yields "".
func (c *LocalClient) localConfigLaunchOptions(appID string) (string, error) {
	configDir, err := c.userConfigDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(configDir, "localconfig.vdf")

	root, err := c.parseLocalConfig(path)
	if err != nil {
		return "", err
	}

	apps, ok := appsSection(root, false)
	if !ok {
		return "", nil
	}
	app, ok := childMap(apps, appID)
	if !ok {
		return "", nil
	}
	if v, _, ok := lookup(app, "LaunchOptions"); ok {
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	return "", nil
}

// setLocalConfigLaunchOptions writes the launch options for an official
// app into localconfig.vdf, creating the app entry if needed. The file is
// replaced atomically so a concurrent Steam read never sees a torn write.
func (c *LocalClient) setLocalConfigLaunchOptions(appID, options string) error {
	configDir, err := c.userConfigDir()
	if err != nil {
		return err
	}
	path := filepath.Join(configDir, "localconfig.vdf")

	root, err := c.parseLocalConfig(path)
	if err != nil {
		return err
	}

	apps, ok := appsSection(root, true)
	if !ok {
		return fmt.Errorf("unexpected structure in %s", path)
	}
	app, ok := childMap(apps, appID)
	if !ok {
		app = map[string]any{}
		apps[appID] = app
	}
	setKey(app, "LaunchOptions", options)

	data, err := vdftext.Marshal(root)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", path, err)
	}
	return atomicWrite(c.fs, path, data)
}

func (c *LocalClient) parseLocalConfig(path string) (map[string]any, error) {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	root, err := vdf.NewParser(bytes.NewReader(data)).Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return root, nil
}

// appsSection navigates UserLocalConfigStore > Software > Valve > Steam >
// apps, case-insensitively since Valve's own tools disagree on casing.
// With create set, missing levels are added using the canonical names.
func appsSection(root map[string]any, create bool) (map[string]any, bool) {
	m := root
	for _, key := range []string{"UserLocalConfigStore", "Software", "Valve", "Steam", "apps"} {
		next, ok := childMap(m, key)
		if !ok {
			if !create {
				return nil, false
			}
			if _, actual, exists := lookup(m, key); exists {
				// Key present but not a map, refuse to clobber it.
				log.Warn().Msgf("localconfig key %q is not a section", actual)
				return nil, false
			}
			next = map[string]any{}
			m[key] = next
		}
		m = next
	}
	return m, true
}

// shortcutLaunchOptions reads the launch options of a non-Steam shortcut.
func (c *LocalClient) shortcutLaunchOptions(appID uint32) (string, error) {
	root, path, err := c.parseShortcuts()
	if err != nil {
		return "", err
	}
	options, ok := vdfbinary.ShortcutLaunchOptions(root, appID)
	if !ok {
		return "", fmt.Errorf("%w: app id %d in %s", ErrShortcutNotFound, appID, path)
	}
	return options, nil
}

// setShortcutLaunchOptions writes the launch options of a non-Steam
// shortcut back to shortcuts.vdf.
func (c *LocalClient) setShortcutLaunchOptions(appID uint32, options string) error {
	root, path, err := c.parseShortcuts()
	if err != nil {
		return err
	}
	if !vdfbinary.SetShortcutLaunchOptions(root, appID, options) {
		return fmt.Errorf("%w: app id %d in %s", ErrShortcutNotFound, appID, path)
	}

	var buf bytes.Buffer
	if err := vdfbinary.Write(&buf, root); err != nil {
		return fmt.Errorf("failed to serialize %s: %w", path, err)
	}
	return atomicWrite(c.fs, path, buf.Bytes())
}

func (c *LocalClient) parseShortcuts() (vdfbinary.Value, string, error) {
	configDir, err := c.userConfigDir()
	if err != nil {
		return vdfbinary.Value{}, "", err
	}
	path := filepath.Join(configDir, "shortcuts.vdf")

	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return vdfbinary.Value{}, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	root, err := vdfbinary.Parse(bytes.NewReader(data))
	if err != nil {
		return vdfbinary.Value{}, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return root, path, nil
}

// lookup finds a key case-insensitively and reports the actual stored key.
func lookup(m map[string]any, key string) (any, string, bool) {
	if v, ok := m[key]; ok {
		return v, key, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, k, true
		}
	}
	return nil, "", false
}

func childMap(m map[string]any, key string) (map[string]any, bool) {
	v, _, ok := lookup(m, key)
	if !ok {
		return nil, false
	}
	child, ok := v.(map[string]any)
	return child, ok
}

// setKey writes a value under an existing key's casing when present,
// otherwise under the given canonical name.
func setKey(m map[string]any, key string, value any) {
	if _, actual, ok := lookup(m, key); ok {
		m[actual] = value
		return
	}
	m[key] = value
}

func atomicWrite(fsys afero.Fs, path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(fsys, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
