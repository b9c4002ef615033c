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
	"os"
	"testing"
	"time"

	"github.com/LaunchOptsProject/launchopts-core/pkg/api/models"
	"github.com/LaunchOptsProject/launchopts-core/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatchConfigReloadsOnChange(t *testing.T) {
	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)

	ns := make(chan models.Notification, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchConfig(ctx, cfg, ns)
	}()

	// Give the watcher time to register before touching the file.
	time.Sleep(100 * time.Millisecond)

	updated := "config_schema = 1\n\n[launch]\nglobal_options = \"mangohud %command%\"\n"
	require.NoError(t, os.WriteFile(cfg.Path(), []byte(updated), 0o644))

	select {
	case notif := <-ns:
		assert.Equal(t, models.NotificationSettingsChanged, notif.Method)
		payload, ok := notif.Params.(models.SettingsResponse)
		require.True(t, ok)
		assert.Equal(t, "mangohud %command%", payload.GlobalLaunchOptions)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload notification received")
	}

	assert.Equal(t, "mangohud %command%", cfg.GlobalLaunchOptions())

	cancel()
	require.NoError(t, <-done)
}

func TestNotifyDropsWhenFull(t *testing.T) {
	ns := make(chan models.Notification, 1)
	notify(ns, models.Notification{Method: "a"})
	// Must not block with a full channel.
	notify(ns, models.Notification{Method: "b"})

	notif := <-ns
	assert.Equal(t, "a", notif.Method)
}
