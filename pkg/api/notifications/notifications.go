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

// Package notifications publishes API notification events to connected
// websocket clients.
package notifications

import "github.com/LaunchOptsProject/launchopts-core/pkg/api/models"

func SettingsChanged(ns chan<- models.Notification, payload models.SettingsResponse) {
	ns <- models.Notification{
		Method: models.NotificationSettingsChanged,
		Params: payload,
	}
}

func LaunchIntercepted(ns chan<- models.Notification, appID, options string) {
	ns <- models.Notification{
		Method: models.NotificationLaunchIntercepted,
		Params: models.LaunchNotification{AppID: appID, Options: options},
	}
}

func LaunchRestored(ns chan<- models.Notification, appID string) {
	ns <- models.Notification{
		Method: models.NotificationLaunchRestored,
		Params: models.LaunchNotification{AppID: appID},
	}
}
