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

// Package service assembles and runs the daemon: the Steam client, the
// launch interceptor, the settings API server and the config watcher.
package service

import (
	"context"
	"fmt"

	"github.com/LaunchOptsProject/launchopts-core/pkg/api"
	"github.com/LaunchOptsProject/launchopts-core/pkg/api/models"
	"github.com/LaunchOptsProject/launchopts-core/pkg/config"
	"github.com/LaunchOptsProject/launchopts-core/pkg/interceptor"
	"github.com/LaunchOptsProject/launchopts-core/pkg/overrides"
	"github.com/LaunchOptsProject/launchopts-core/pkg/steam"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// notificationBuffer bounds pending broadcasts. Launch events are rare,
// so drops only happen when no client is consuming at all.
const notificationBuffer = 100

func notify(ns chan<- models.Notification, n models.Notification) {
	select {
	case ns <- n:
	default:
		log.Warn().Str("method", n.Method).Msg("dropping notification, channel full")
	}
}

// Start brings up the daemon and returns a stop function that shuts it
// down and waits for all components to exit.
func Start(cfg *config.Instance) (func() error, error) {
	client := steam.NewLocalClient(afero.NewOsFs(), cfg)

	var source overrides.Source
	if url := cfg.BackendURL(); url != "" {
		log.Info().Str("url", url).Msg("using remote settings backend")
		source = overrides.NewRemoteSource(url, nil)
	} else {
		source = overrides.NewConfigSource(cfg)
	}

	notifications := make(chan models.Notification, notificationBuffer)

	ic := interceptor.New(client, source, interceptor.Options{
		RestoreDelay: cfg.RestoreDelay(),
		OnInjected: func(appID, options string) {
			notify(notifications, models.Notification{
				Method: models.NotificationLaunchIntercepted,
				Params: models.LaunchNotification{AppID: appID, Options: options},
			})
		},
		OnRestored: func(appID string) {
			notify(notifications, models.Notification{
				Method: models.NotificationLaunchRestored,
				Params: models.LaunchNotification{AppID: appID},
			})
		},
	})
	if err := ic.Install(); err != nil {
		return nil, fmt.Errorf("failed to install launch hooks: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return api.Start(gctx, cfg, client, notifications)
	})
	g.Go(func() error {
		return watchConfig(gctx, cfg, notifications)
	})

	stop := func() error {
		cancel()
		if err := g.Wait(); err != nil {
			return fmt.Errorf("error during shutdown: %w", err)
		}
		return nil
	}
	return stop, nil
}
