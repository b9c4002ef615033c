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

package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	NotificationSettingsChanged   = "settings.changed"
	NotificationLaunchIntercepted = "launch.intercepted"
	NotificationLaunchRestored    = "launch.restored"
)

const (
	MethodSettings         = "settings"
	MethodSettingsUpdate   = "settings.update"
	MethodSettingsReload   = "settings.reload"
	MethodLaunchEventStart = "launch.event.start"
	MethodLaunchEventTask  = "launch.event.task"
	MethodVersion          = "version"
)

type Notification struct {
	Params any
	Method string
}

type RequestObject struct {
	ID      *uuid.UUID      `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type ErrorObject struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type ResponseObject struct {
	Result  any          `json:"result"`
	Error   *ErrorObject `json:"error,omitempty"`
	JSONRPC string       `json:"jsonrpc"`
	ID      uuid.UUID    `json:"id"`
}

// SettingsResponse is the full settings snapshot returned by the settings
// method and broadcast on settings.changed.
type SettingsResponse struct {
	GlobalLaunchOptions string `json:"globalLaunchOptions"`
	ExcludedGameIDs     string `json:"excludedGameIds"`
	RestoreDelay        string `json:"restoreDelay"`
	DebugLogging        bool   `json:"debugLogging"`
}

// UpdateSettingsParams carries a partial settings update. Nil fields are
// left untouched.
type UpdateSettingsParams struct {
	GlobalLaunchOptions *string `json:"globalLaunchOptions,omitempty"`
	ExcludedGameIDs     *string `json:"excludedGameIds,omitempty"  validate:"omitempty,gameids"`
	RestoreDelay        *string `json:"restoreDelay,omitempty"     validate:"omitempty,duration"`
	DebugLogging        *bool   `json:"debugLogging,omitempty"`
}

// GameActionStartParams reports a Steam game action start event.
type GameActionStartParams struct {
	AppID         string `json:"appId"         validate:"required,gameids"`
	Action        string `json:"action"        validate:"required"`
	CorrelationID uint64 `json:"correlationId"`
}

// GameActionTaskParams reports a Steam game action task transition.
type GameActionTaskParams struct {
	Task     string `json:"task" validate:"required"`
	ActionID uint64 `json:"actionId"`
}

type VersionResponse struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}

// LaunchNotification is the payload of launch.intercepted and
// launch.restored notifications.
type LaunchNotification struct {
	AppID   string `json:"appId"`
	Options string `json:"options,omitempty"`
}
