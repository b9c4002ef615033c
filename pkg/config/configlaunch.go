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

package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultRestoreDelay is how long merged options are left in place before
// the original options are written back. Long enough for Steam to have read
// the merged options during process startup.
const DefaultRestoreDelay = 10 * time.Second

func (c *Instance) GlobalLaunchOptions() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Launch.GlobalOptions
}

func (c *Instance) SetGlobalLaunchOptions(options string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Launch.GlobalOptions = options
}

func (c *Instance) ExcludedGameIDs() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Launch.ExcludedGameIDs
}

func (c *Instance) SetExcludedGameIDs(ids string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Launch.ExcludedGameIDs = ids
}

// RestoreDelay returns the configured restore delay, falling back to the
// default when unset or unparseable.
func (c *Instance) RestoreDelay() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.vals.Launch.RestoreDelay == "" {
		return DefaultRestoreDelay
	}

	d, err := time.ParseDuration(c.vals.Launch.RestoreDelay)
	if err != nil || d <= 0 {
		log.Warn().Msgf("invalid restore delay: %s", c.vals.Launch.RestoreDelay)
		return DefaultRestoreDelay
	}
	return d
}

func (c *Instance) SetRestoreDelay(delay string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Launch.RestoreDelay = delay
}

// SteamInstallDir returns the user-configured Steam install directory, or
// empty when auto-detection should be used.
func (c *Instance) SteamInstallDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Steam.InstallDir
}
