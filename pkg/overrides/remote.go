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

package overrides

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/LaunchOptsProject/launchopts-core/pkg/helpers/syncutil"
	"github.com/LaunchOptsProject/launchopts-core/pkg/shared/httpclient"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	// remoteCacheTTL bounds backend call volume under launch bursts.
	remoteCacheTTL = time.Second
	remoteTimeout  = 2 * time.Second
)

// RemoteSource fetches override settings from a backend endpoint returning
// JSON, caching the result briefly. Fetch failures are cached too as a safe
// default config, so a failing backend doesn't cause a request storm.
type RemoteSource struct {
	fetchedAt time.Time
	clock     clockwork.Clock
	client    *http.Client
	url       string
	cached    Config
	ttl       time.Duration
	mu        syncutil.Mutex
}

// NewRemoteSource creates a Source backed by the given backend URL.
// A nil clock uses the real clock.
func NewRemoteSource(url string, clock clockwork.Clock) *RemoteSource {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RemoteSource{
		url:    url,
		clock:  clock,
		client: httpclient.NewClient(remoteTimeout),
		ttl:    remoteCacheTTL,
	}
}

func (s *RemoteSource) HookConfig() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if !s.fetchedAt.IsZero() && now.Sub(s.fetchedAt) < s.ttl {
		return s.cached
	}

	cfg, err := s.fetch()
	if err != nil {
		log.Warn().Err(err).Msg("fetching override settings failed, using safe defaults")
		cfg = Config{}
	}

	s.cached = cfg
	s.fetchedAt = now
	return cfg
}

func (s *RemoteSource) fetch() (Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to build settings request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Config{}, fmt.Errorf("settings request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing settings response")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return Config{}, fmt.Errorf("settings request returned status %d", resp.StatusCode)
	}

	var cfg Config
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode settings response: %w", err)
	}
	return cfg, nil
}
