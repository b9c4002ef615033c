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

// Package interceptor correlates Steam's game action events into launch
// option injections. A "LaunchApp" start event marks an app as pending,
// the following "CreatingProcess" task is the moment its stored launch
// options are replaced with the merged set, and a one-shot timer writes
// the originals back shortly after the game process has started.
package interceptor

import (
	"errors"
	"strings"
	"time"

	"github.com/LaunchOptsProject/launchopts-core/pkg/helpers/syncutil"
	"github.com/LaunchOptsProject/launchopts-core/pkg/launchopts"
	"github.com/LaunchOptsProject/launchopts-core/pkg/overrides"
	"github.com/LaunchOptsProject/launchopts-core/pkg/steam"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultFetchTimeout bounds the wait for an app's original launch
// options. Past it the launch proceeds uninjected rather than stalling.
const DefaultFetchTimeout = 5 * time.Second

// ErrNoHooks means the client exposes no game action events at all, so
// the interceptor cannot observe launches.
var ErrNoHooks = errors.New("client exposes no game action hooks")

// Options tunes interceptor behavior. The zero value selects defaults.
type Options struct {
	// Clock is injected for tests. Nil selects the real clock.
	Clock clockwork.Clock
	// RestoreDelay is how long merged options stay applied before the
	// original options are written back.
	RestoreDelay time.Duration
	// FetchTimeout bounds the original-options lookup per launch.
	FetchTimeout time.Duration
	// OnInjected, if set, is called after merged options were written.
	OnInjected func(appID, options string)
	// OnRestored, if set, is called after original options were restored.
	OnRestored func(appID string)
}

// Interceptor tracks a single pending launch at a time. Steam serializes
// game launches, so one slot with last-writer-wins is sufficient: a new
// "LaunchApp" for a different app simply replaces the pending id.
type Interceptor struct {
	client steam.Client
	source overrides.Source
	clock  clockwork.Clock

	restoreDelay time.Duration
	fetchTimeout time.Duration
	onInjected   func(appID, options string)
	onRestored   func(appID string)

	mu           syncutil.Mutex
	pendingAppID string
	prevStart    steam.GameActionStartFunc
	prevTask     steam.GameActionTaskFunc
	installed    bool
}

// New creates an interceptor. Hooks are not installed until Install is
// called.
func New(client steam.Client, source overrides.Source, opts Options) *Interceptor {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	restoreDelay := opts.RestoreDelay
	if restoreDelay <= 0 {
		restoreDelay = 10 * time.Second
	}
	fetchTimeout := opts.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &Interceptor{
		client:       client,
		source:       source,
		clock:        clock,
		restoreDelay: restoreDelay,
		fetchTimeout: fetchTimeout,
		onInjected:   opts.OnInjected,
		onRestored:   opts.OnRestored,
	}
}

// Install hooks into the client's game action events. Safe to call more
// than once, repeat calls are no-ops. A client missing one of the two
// hook surfaces is accepted with a warning so partial functionality
// survives Steam client changes; a client missing both is an error.
func (i *Interceptor) Install() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.installed {
		log.Debug().Msg("launch hooks already installed")
		return nil
	}

	hooked := false
	if h, ok := i.client.(steam.GameActionStartHooker); ok {
		i.prevStart = h.HookGameActionStart(i.handleGameActionStart)
		hooked = true
	} else {
		log.Warn().Msg("client does not expose game action start events")
	}
	if h, ok := i.client.(steam.GameActionTaskHooker); ok {
		i.prevTask = h.HookGameActionTask(i.handleGameActionTask)
		hooked = true
	} else {
		log.Warn().Msg("client does not expose game action task events")
	}

	if !hooked {
		return ErrNoHooks
	}

	i.installed = true
	log.Info().Msg("launch hooks installed")
	return nil
}

// Installed reports whether Install has completed.
func (i *Interceptor) Installed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.installed
}

func (i *Interceptor) handleGameActionStart(correlationID uint64, appID, action string) {
	if action == steam.ActionLaunchApp {
		cfg := i.source.HookConfig()

		i.mu.Lock()
		if cfg.Excludes(appID) {
			// Also drops any stale pending id so an aborted earlier
			// launch cannot leak its injection into this one.
			i.pendingAppID = ""
			log.Debug().Str("appId", appID).Msg("app is excluded, skipping injection")
		} else {
			i.pendingAppID = appID
		}
		i.mu.Unlock()
	}

	i.mu.Lock()
	prev := i.prevStart
	i.mu.Unlock()
	if prev != nil {
		prev(correlationID, appID, action)
	}
}

func (i *Interceptor) handleGameActionTask(actionID uint64, task string) {
	i.mu.Lock()
	appID := i.pendingAppID
	prev := i.prevTask
	if task == steam.TaskCreatingProcess && appID != "" {
		i.pendingAppID = ""
	}
	i.mu.Unlock()

	if task == steam.TaskCreatingProcess && appID != "" {
		i.inject(appID)
	}

	if prev != nil {
		prev(actionID, task)
	}
}

// inject merges the global options into the app's stored options and arms
// the restore timer. Runs at "CreatingProcess" time, the last point where
// Steam has not yet read the options for the new process.
func (i *Interceptor) inject(appID string) {
	global := i.source.HookConfig().GlobalLaunchOptions
	if strings.TrimSpace(global) == "" {
		log.Debug().Str("appId", appID).Msg("no global launch options configured")
		return
	}

	req, err := i.client.AppDetails(appID)
	if err != nil {
		log.Warn().Err(err).Str("appId", appID).Msg("failed to request app details")
		return
	}

	var original string
	select {
	case details := <-req.Done():
		original = details.LaunchOptions
	case <-i.clock.After(i.fetchTimeout):
		req.Cancel()
		log.Warn().Str("appId", appID).
			Msg("timed out waiting for app details, launching without injection")
		return
	}

	merged := launchopts.Merge(original, global)
	if err := i.client.SetLaunchOptions(appID, merged); err != nil {
		log.Error().Err(err).Str("appId", appID).Msg("failed to set merged launch options")
		return
	}
	log.Info().
		Str("appId", appID).
		Str("options", merged).
		Msg("injected launch options")
	if i.onInjected != nil {
		i.onInjected(appID, merged)
	}

	i.armRestore(appID, original)
}

// armRestore schedules a one-shot write-back of the original options.
// Best effort: the timer is never cancelled, and a failed restore only
// logs since the next launch overwrites the options again anyway.
func (i *Interceptor) armRestore(appID, original string) {
	i.clock.AfterFunc(i.restoreDelay, func() {
		if err := i.client.SetLaunchOptions(appID, original); err != nil {
			log.Warn().Err(err).Str("appId", appID).
				Msg("failed to restore original launch options")
			return
		}
		log.Debug().Str("appId", appID).Msg("restored original launch options")
		if i.onRestored != nil {
			i.onRestored(appID)
		}
	})
}
