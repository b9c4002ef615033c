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

// Package overrides supplies the global launch option override settings
// consumed by the launch interceptor. The concrete source is chosen at
// composition time: settings either live in the local config file or are
// fetched from a remote backend with a short-lived cache.
package overrides

import (
	"strings"

	"github.com/LaunchOptsProject/launchopts-core/pkg/config"
)

// Config is a snapshot of the override settings used for a single launch.
type Config struct {
	// GlobalLaunchOptions is merged into every launched app's options.
	GlobalLaunchOptions string `json:"globalLaunchOptions"`
	// ExcludedGameIDs is a comma-separated list of app ids to skip.
	ExcludedGameIDs string `json:"excludedGameIds"`
}

// Excludes reports whether the given app id is on the exclusion list.
// List entries are trimmed before comparison.
func (c Config) Excludes(appID string) bool {
	if c.ExcludedGameIDs == "" || appID == "" {
		return false
	}
	for _, id := range strings.Split(c.ExcludedGameIDs, ",") {
		if strings.TrimSpace(id) == appID {
			return true
		}
	}
	return false
}

// Source supplies the current override settings. Implementations must be
// safe for concurrent reads.
type Source interface {
	HookConfig() Config
}

// ConfigSource serves override settings from the in-memory config instance.
// The settings API mutates the instance synchronously and saves on each
// change, so reads here are always current.
type ConfigSource struct {
	cfg *config.Instance
}

// NewConfigSource creates a Source backed by the local config file.
func NewConfigSource(cfg *config.Instance) *ConfigSource {
	return &ConfigSource{cfg: cfg}
}

func (s *ConfigSource) HookConfig() Config {
	return Config{
		GlobalLaunchOptions: s.cfg.GlobalLaunchOptions(),
		ExcludedGameIDs:     s.cfg.ExcludedGameIDs(),
	}
}
