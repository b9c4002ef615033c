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
	"fmt"
	"strconv"

	"github.com/LaunchOptsProject/launchopts-core/pkg/config"
	"github.com/LaunchOptsProject/launchopts-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// LocalClient implements Client against the Steam installation on disk.
// Launch options for official apps live in localconfig.vdf (text VDF),
// non-Steam shortcuts keep theirs in shortcuts.vdf (binary VDF).
//
// Event dispatch is push-based: whatever feeds Steam client events into
// the process calls the Dispatch methods, and hooked handlers receive
// them. The filesystem is injected to allow memory-backed tests.
type LocalClient struct {
	fs  afero.Fs
	cfg *config.Instance

	mu                syncutil.RWMutex
	onGameActionStart GameActionStartFunc
	onGameActionTask  GameActionTaskFunc
}

// NewLocalClient creates a client for the local Steam installation.
func NewLocalClient(fsys afero.Fs, cfg *config.Instance) *LocalClient {
	return &LocalClient{
		fs:  fsys,
		cfg: cfg,
	}
}

// HookGameActionStart installs a handler for game action start events and
// returns the previous handler, which may be nil.
func (c *LocalClient) HookGameActionStart(fn GameActionStartFunc) GameActionStartFunc {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.onGameActionStart
	c.onGameActionStart = fn
	return prev
}

// HookGameActionTask installs a handler for game action task events and
// returns the previous handler, which may be nil.
func (c *LocalClient) HookGameActionTask(fn GameActionTaskFunc) GameActionTaskFunc {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.onGameActionTask
	c.onGameActionTask = fn
	return prev
}

// DispatchGameActionStart feeds a game action start event to the hooked
// handler. Events arriving before any hook is installed are dropped.
func (c *LocalClient) DispatchGameActionStart(correlationID uint64, appID, action string) {
	c.mu.RLock()
	fn := c.onGameActionStart
	c.mu.RUnlock()
	if fn == nil {
		log.Debug().
			Str("appId", appID).
			Str("action", action).
			Msg("no game action start handler installed, dropping event")
		return
	}
	fn(correlationID, appID, action)
}

// DispatchGameActionTask feeds a game action task event to the hooked
// handler. Events arriving before any hook is installed are dropped.
func (c *LocalClient) DispatchGameActionTask(actionID uint64, task string) {
	c.mu.RLock()
	fn := c.onGameActionTask
	c.mu.RUnlock()
	if fn == nil {
		log.Debug().
			Str("task", task).
			Msg("no game action task handler installed, dropping event")
		return
	}
	fn(actionID, task)
}

// AppDetails resolves the stored details for an app asynchronously. A
// failed read is logged and leaves the request pending so callers fall
// back to their timeout path instead of injecting against bad data.
func (c *LocalClient) AppDetails(appID string) (*DetailsRequest, error) {
	if _, err := parseAppID(appID); err != nil {
		return nil, err
	}

	req := NewDetailsRequest(nil)
	go func() {
		options, err := c.launchOptions(appID)
		if err != nil {
			log.Warn().Err(err).Str("appId", appID).Msg("failed to read app launch options")
			return
		}
		req.Deliver(AppDetails{LaunchOptions: options})
	}()
	return req, nil
}

// SetLaunchOptions overwrites the stored launch options for an app,
// routing to shortcuts.vdf or localconfig.vdf based on the app id range.
func (c *LocalClient) SetLaunchOptions(appID, options string) error {
	id, err := parseAppID(appID)
	if err != nil {
		return err
	}
	if id >= ShortcutAppIDThreshold {
		return c.setShortcutLaunchOptions(uint32(id), options)
	}
	return c.setLocalConfigLaunchOptions(appID, options)
}

func (c *LocalClient) launchOptions(appID string) (string, error) {
	id, err := parseAppID(appID)
	if err != nil {
		return "", err
	}
	if id >= ShortcutAppIDThreshold {
		return c.shortcutLaunchOptions(uint32(id))
	}
	return c.localConfigLaunchOptions(appID)
}

func parseAppID(appID string) (uint64, error) {
	id, err := strconv.ParseUint(appID, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid app id %q: %w", appID, err)
	}
	return id, nil
}
