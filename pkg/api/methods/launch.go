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

package methods

import (
	"errors"

	"github.com/LaunchOptsProject/launchopts-core/pkg/api/models"
	"github.com/LaunchOptsProject/launchopts-core/pkg/api/models/requests"
	"github.com/LaunchOptsProject/launchopts-core/pkg/api/validation"
	"github.com/rs/zerolog/log"
)

// ErrNotAllowed rejects event submissions from non-loopback clients.
var ErrNotAllowed = errors.New("not allowed")

//nolint:gocritic // single-use parameter in API handler
func HandleLaunchEventStart(env requests.RequestEnv) (any, error) {
	if !env.IsLocal {
		return nil, ErrNotAllowed
	}
	if env.Events == nil {
		return nil, errors.New("no event sink available")
	}

	var params models.GameActionStartParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	log.Debug().
		Str("appId", params.AppID).
		Str("action", params.Action).
		Msg("received game action start event")
	env.Events.DispatchGameActionStart(params.CorrelationID, params.AppID, params.Action)
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleLaunchEventTask(env requests.RequestEnv) (any, error) {
	if !env.IsLocal {
		return nil, ErrNotAllowed
	}
	if env.Events == nil {
		return nil, errors.New("no event sink available")
	}

	var params models.GameActionTaskParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	log.Debug().
		Str("task", params.Task).
		Msg("received game action task event")
	env.Events.DispatchGameActionTask(params.ActionID, params.Task)
	return NoContent{}, nil
}
