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

// Package steam provides the client surface for interacting with a local
// Steam installation: reading and writing per-app launch options and
// hooking into Steam's game action event stream.
package steam

import "sync"

// Steam game action event names as they appear in Steam's client event
// stream. Only a small subset is relevant for launch interception.
const (
	// ActionLaunchApp is the game action dispatched when a user starts a game.
	ActionLaunchApp = "LaunchApp"
	// TaskCreatingProcess is the action task stage right before the game
	// process is spawned, the last point where launch options still apply.
	TaskCreatingProcess = "CreatingProcess"
)

// ShortcutAppIDThreshold splits the app id space: ids at or above this
// value belong to non-Steam shortcuts stored in shortcuts.vdf, everything
// below is an official app stored in localconfig.vdf.
const ShortcutAppIDThreshold uint64 = 1 << 31

// GameActionStartFunc handles a game action start event. App ids are
// decimal strings to match Steam's event payloads and the exclusion list
// format in settings.
type GameActionStartFunc func(correlationID uint64, appID string, action string)

// GameActionTaskFunc handles a game action task transition event.
type GameActionTaskFunc func(actionID uint64, task string)

// Client defines the Steam operations needed for launch option injection.
// This interface enables proper mocking of the Steam surface in tests.
type Client interface {
	// AppDetails requests the stored details for an app. The returned
	// request resolves asynchronously; callers should bound the wait and
	// call Cancel when giving up.
	AppDetails(appID string) (*DetailsRequest, error)

	// SetLaunchOptions overwrites the stored launch options for an app.
	SetLaunchOptions(appID string, options string) error
}

// GameActionStartHooker is implemented by clients that can report game
// action start events. Hooking returns the previously installed handler
// so hooks can chain to it.
type GameActionStartHooker interface {
	HookGameActionStart(fn GameActionStartFunc) GameActionStartFunc
}

// GameActionTaskHooker is implemented by clients that can report game
// action task transitions.
type GameActionTaskHooker interface {
	HookGameActionTask(fn GameActionTaskFunc) GameActionTaskFunc
}

// AppDetails is the subset of an app's stored details used for launch
// option injection.
type AppDetails struct {
	LaunchOptions string
}

// DetailsRequest is a single-shot future for an AppDetails lookup.
// Exactly one of Deliver or Cancel takes effect; whichever runs second
// is a no-op, so a late delivery after cancellation is safely dropped.
type DetailsRequest struct {
	done       chan AppDetails
	unregister func()
	once       sync.Once
}

// NewDetailsRequest creates a pending request. unregister, if non-nil, is
// invoked exactly once when the request settles, on delivery or
// cancellation, so the underlying callback registration never leaks.
func NewDetailsRequest(unregister func()) *DetailsRequest {
	return &DetailsRequest{
		done:       make(chan AppDetails, 1),
		unregister: unregister,
	}
}

// Done returns a channel that receives the details exactly once if the
// request resolves. It never receives after Cancel.
func (r *DetailsRequest) Done() <-chan AppDetails {
	return r.done
}

// Deliver resolves the request with the given details. No-op if the
// request was already resolved or cancelled.
func (r *DetailsRequest) Deliver(details AppDetails) {
	r.once.Do(func() {
		r.done <- details
		if r.unregister != nil {
			r.unregister()
		}
	})
}

// Cancel abandons the request and removes the callback registration.
// No-op if the request already resolved.
func (r *DetailsRequest) Cancel() {
	r.once.Do(func() {
		if r.unregister != nil {
			r.unregister()
		}
	})
}
