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

package service

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/LaunchOptsProject/launchopts-core/pkg/api/models"
	"github.com/LaunchOptsProject/launchopts-core/pkg/config"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// watchConfig reloads the config file when it changes on disk, so edits
// made outside the API are picked up without a restart. The parent
// directory is watched because editors often replace the file by rename.
func watchConfig(
	ctx context.Context,
	cfg *config.Instance,
	notifications chan<- models.Notification,
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing config watcher")
		}
	}()

	cfgPath := cfg.Path()
	if err := watcher.Add(filepath.Dir(cfgPath)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != cfgPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			log.Info().Str("path", cfgPath).Msg("config file changed, reloading")
			if err := cfg.Load(); err != nil {
				log.Error().Err(err).Msg("failed to reload config")
				continue
			}

			notify(notifications, models.Notification{
				Method: models.NotificationSettingsChanged,
				Params: models.SettingsResponse{
					GlobalLaunchOptions: cfg.GlobalLaunchOptions(),
					ExcludedGameIDs:     cfg.ExcludedGameIDs(),
					RestoreDelay:        cfg.RestoreDelay().String(),
					DebugLogging:        cfg.DebugLogging(),
				},
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("config watcher error")
		}
	}
}
