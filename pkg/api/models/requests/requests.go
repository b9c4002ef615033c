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

package requests

import (
	"encoding/json"

	"github.com/LaunchOptsProject/launchopts-core/pkg/api/models"
	"github.com/LaunchOptsProject/launchopts-core/pkg/config"
	"github.com/google/uuid"
)

// EventSink receives Steam game action events fed in by an external
// frontend over the API.
type EventSink interface {
	DispatchGameActionStart(correlationID uint64, appID, action string)
	DispatchGameActionTask(actionID uint64, task string)
}

type RequestEnv struct {
	Config        *config.Instance
	Events        EventSink
	Notifications chan<- models.Notification
	Params        json.RawMessage
	ID            uuid.UUID
	IsLocal       bool
}
