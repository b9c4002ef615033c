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

// Package cli implements the command line surface shared by the service
// binaries: flag handling and common environment setup.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/LaunchOptsProject/launchopts-core/pkg/api/client"
	"github.com/LaunchOptsProject/launchopts-core/pkg/api/models"
	"github.com/LaunchOptsProject/launchopts-core/pkg/config"
	"github.com/LaunchOptsProject/launchopts-core/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Flags struct {
	API        *string
	SetOptions *string
	Exclude    *string
	Settings   *bool
	Version    *bool
	Reload     *bool
	Watch      *bool
}

// SetupFlags defines all common CLI flags between platforms.
func SetupFlags() *Flags {
	return &Flags{
		API: flag.String(
			"api",
			"",
			"send method and params to API and print response",
		),
		SetOptions: flag.String(
			"set-options",
			"",
			"set the global launch options applied to every game",
		),
		Exclude: flag.String(
			"exclude",
			"",
			"set the comma-separated list of excluded game ids",
		),
		Settings: flag.Bool(
			"settings",
			false,
			"print current settings and exit",
		),
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
		Reload: flag.Bool(
			"reload",
			false,
			"reload settings from disk",
		),
		Watch: flag.Bool(
			"watch",
			false,
			"print each intercepted launch as it happens",
		),
	}
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre() {
	flag.Parse()

	if *f.Version {
		_, _ = fmt.Printf("LaunchOpts v%s (%s)\n", config.AppVersion, runtime.GOOS)
		os.Exit(0)
	}
}

func updateSettings(cfg *config.Instance, params models.UpdateSettingsParams) {
	data, err := json.Marshal(&params)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error encoding params: %v\n", err)
		os.Exit(1)
	}

	_, err = client.LocalClient(context.Background(), cfg, models.MethodSettingsUpdate, string(data))
	if err != nil {
		log.Error().Err(err).Msg("error updating settings")
		_, _ = fmt.Fprintf(os.Stderr, "Error updating settings: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

// Post actions all remaining common flags that require the environment to
// be set up. Logging is allowed.
func (f *Flags) Post(cfg *config.Instance) {
	switch {
	case *f.Settings:
		resp, err := client.LocalClient(context.Background(), cfg, models.MethodSettings, "")
		if err != nil {
			log.Error().Err(err).Msg("error fetching settings")
			_, _ = fmt.Fprintf(os.Stderr, "Error fetching settings: %v\n", err)
			os.Exit(1)
		}
		_, _ = fmt.Println(resp)
		os.Exit(0)
	case isFlagPassed("set-options"):
		// An empty value clears the global options.
		updateSettings(cfg, models.UpdateSettingsParams{
			GlobalLaunchOptions: f.SetOptions,
		})
	case isFlagPassed("exclude"):
		updateSettings(cfg, models.UpdateSettingsParams{
			ExcludedGameIDs: f.Exclude,
		})
	case isFlagPassed("api"):
		if *f.API == "" {
			_, _ = fmt.Fprint(os.Stderr, "Error: api flag requires a value\n")
			os.Exit(1)
		}

		ps := strings.SplitN(*f.API, ":", 2)
		method := ps[0]
		params := ""
		if len(ps) > 1 {
			params = ps[1]
		}

		resp, err := client.LocalClient(context.Background(), cfg, method, params)
		if err != nil {
			log.Error().Err(err).Msg("error calling API")
			_, _ = fmt.Fprintf(os.Stderr, "Error calling API: %v\n", err)
			os.Exit(1)
		}

		_, _ = fmt.Println(resp)
		os.Exit(0)
	case *f.Reload:
		_, err := client.LocalClient(context.Background(), cfg, models.MethodSettingsReload, "")
		if err != nil {
			log.Error().Err(err).Msg("error reloading settings")
			_, _ = fmt.Fprintf(os.Stderr, "Error reloading: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	case *f.Watch:
		for {
			resp, err := client.WaitNotification(
				context.Background(), -1, cfg,
				models.NotificationLaunchIntercepted,
			)
			if err != nil {
				log.Error().Err(err).Msg("error waiting for launch notification")
				_, _ = fmt.Fprintf(os.Stderr, "Error waiting for launch: %v\n", err)
				os.Exit(1)
			}
			_, _ = fmt.Println(resp)
		}
	}
}

// Setup initializes the user config and logging. Returns a user config
// object.
func Setup(defaultConfig config.Values, writers []io.Writer) *config.Instance {
	// Ensure directories exist before logging initialization
	if err := helpers.EnsureDirectories(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error creating directories: %v\n", err)
		os.Exit(1)
	}

	if err := helpers.InitLogging(writers); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return cfg
}
