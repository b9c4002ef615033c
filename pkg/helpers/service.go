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

package helpers

import (
	"net"
	"strconv"
	"time"

	"github.com/LaunchOptsProject/launchopts-core/pkg/config"
	"github.com/rs/zerolog/log"
)

// IsServiceRunning reports whether another instance is already listening
// on the configured API port.
func IsServiceRunning(cfg *config.Instance) bool {
	addr := net.JoinHostPort("localhost", strconv.Itoa(cfg.APIPort()))
	conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
	if err != nil {
		return false
	}
	if err := conn.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing probe connection")
	}
	return true
}
