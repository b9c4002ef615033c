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
	"fmt"

	"github.com/LaunchOptsProject/launchopts-core/pkg/api/models"
	"github.com/LaunchOptsProject/launchopts-core/pkg/api/models/requests"
	"github.com/LaunchOptsProject/launchopts-core/pkg/api/notifications"
	"github.com/LaunchOptsProject/launchopts-core/pkg/api/validation"
	"github.com/LaunchOptsProject/launchopts-core/pkg/config"
	"github.com/rs/zerolog/log"
)

func settingsSnapshot(cfg *config.Instance) models.SettingsResponse {
	return models.SettingsResponse{
		GlobalLaunchOptions: cfg.GlobalLaunchOptions(),
		ExcludedGameIDs:     cfg.ExcludedGameIDs(),
		RestoreDelay:        cfg.RestoreDelay().String(),
		DebugLogging:        cfg.DebugLogging(),
	}
}

func HandleSettings(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received settings request")
	return settingsSnapshot(env.Config), nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleSettingsReload(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received settings reload request")

	if err := env.Config.Load(); err != nil {
		log.Error().Err(err).Msg("error loading settings")
		return nil, errors.New("error loading settings")
	}

	notifications.SettingsChanged(env.Notifications, settingsSnapshot(env.Config))
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleSettingsUpdate(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received settings update request")

	var params models.UpdateSettingsParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if params.GlobalLaunchOptions != nil {
		log.Info().Str("globalLaunchOptions", *params.GlobalLaunchOptions).Msg("update")
		env.Config.SetGlobalLaunchOptions(*params.GlobalLaunchOptions)
	}

	if params.ExcludedGameIDs != nil {
		log.Info().Str("excludedGameIds", *params.ExcludedGameIDs).Msg("update")
		env.Config.SetExcludedGameIDs(*params.ExcludedGameIDs)
	}

	if params.RestoreDelay != nil {
		log.Info().Str("restoreDelay", *params.RestoreDelay).Msg("update")
		env.Config.SetRestoreDelay(*params.RestoreDelay)
	}

	if params.DebugLogging != nil {
		log.Info().Bool("debugLogging", *params.DebugLogging).Msg("update")
		env.Config.SetDebugLogging(*params.DebugLogging)
	}

	if err := env.Config.Save(); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	notifications.SettingsChanged(env.Notifications, settingsSnapshot(env.Config))
	return NoContent{}, nil
}
