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

package interceptor_test

import (
	"sync"
	"testing"
	"time"

	"github.com/LaunchOptsProject/launchopts-core/pkg/interceptor"
	"github.com/LaunchOptsProject/launchopts-core/pkg/overrides"
	"github.com/LaunchOptsProject/launchopts-core/pkg/steam"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type setCall struct {
	appID   string
	options string
}

// fakeClient implements the full Steam client surface with in-memory
// launch options and direct event dispatch.
type fakeClient struct {
	mu           sync.Mutex
	options      map[string]string
	setCalls     []setCall
	onStart      steam.GameActionStartFunc
	onTask       steam.GameActionTaskFunc
	hookCount    int
	withhold     bool
	unregistered bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{options: map[string]string{}}
}

func (c *fakeClient) AppDetails(appID string) (*steam.DetailsRequest, error) {
	c.mu.Lock()
	withhold := c.withhold
	options := c.options[appID]
	c.mu.Unlock()

	// The unregister hook runs from Deliver and Cancel, so it must not be
	// called with c.mu held.
	req := steam.NewDetailsRequest(func() {
		c.mu.Lock()
		c.unregistered = true
		c.mu.Unlock()
	})
	if !withhold {
		req.Deliver(steam.AppDetails{LaunchOptions: options})
	}
	return req, nil
}

func (c *fakeClient) SetLaunchOptions(appID, options string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.options[appID] = options
	c.setCalls = append(c.setCalls, setCall{appID: appID, options: options})
	return nil
}

func (c *fakeClient) HookGameActionStart(fn steam.GameActionStartFunc) steam.GameActionStartFunc {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hookCount++
	prev := c.onStart
	c.onStart = fn
	return prev
}

func (c *fakeClient) HookGameActionTask(fn steam.GameActionTaskFunc) steam.GameActionTaskFunc {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hookCount++
	prev := c.onTask
	c.onTask = fn
	return prev
}

func (c *fakeClient) dispatchStart(id uint64, appID, action string) {
	c.mu.Lock()
	fn := c.onStart
	c.mu.Unlock()
	if fn != nil {
		fn(id, appID, action)
	}
}

func (c *fakeClient) dispatchTask(id uint64, task string) {
	c.mu.Lock()
	fn := c.onTask
	c.mu.Unlock()
	if fn != nil {
		fn(id, task)
	}
}

func (c *fakeClient) calls() []setCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]setCall{}, c.setCalls...)
}

type fakeSource struct {
	mu  sync.Mutex
	cfg overrides.Config
}

func (s *fakeSource) HookConfig() overrides.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func newInterceptor(t *testing.T, client steam.Client, cfg overrides.Config,
	clock clockwork.Clock,
) *interceptor.Interceptor {
	t.Helper()
	ic := interceptor.New(client, &fakeSource{cfg: cfg}, interceptor.Options{
		Clock:        clock,
		RestoreDelay: 10 * time.Second,
	})
	require.NoError(t, ic.Install())
	require.True(t, ic.Installed())
	return ic
}

func TestInjectOnCreatingProcess(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	client := newFakeClient()
	client.options["440"] = "-novid"
	newInterceptor(t, client, overrides.Config{
		GlobalLaunchOptions: "MANGOHUD=1 %command%",
	}, clock)

	client.dispatchStart(1, "440", "LaunchApp")
	client.dispatchTask(2, "CreatingProcess")

	require.Equal(t, []setCall{{"440", "MANGOHUD=1 %command% -novid"}}, client.calls())
}

func TestInjectUnregistersDetailsRequest(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	client := newFakeClient()
	client.options["440"] = "-novid"
	newInterceptor(t, client, overrides.Config{
		GlobalLaunchOptions: "MANGOHUD=1 %command%",
	}, clock)

	// Details are delivered synchronously from AppDetails here, so this
	// also guards against the injection path blocking on clients whose
	// unregister hook takes their own lock.
	client.dispatchStart(1, "440", "LaunchApp")
	client.dispatchTask(2, "CreatingProcess")

	require.Len(t, client.calls(), 1)
	client.mu.Lock()
	defer client.mu.Unlock()
	assert.True(t, client.unregistered)
}

func TestRestoreFiresExactlyOnce(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	client := newFakeClient()
	client.options["440"] = "-novid"
	newInterceptor(t, client, overrides.Config{
		GlobalLaunchOptions: "MANGOHUD=1 %command%",
	}, clock)

	client.dispatchStart(1, "440", "LaunchApp")
	client.dispatchTask(2, "CreatingProcess")
	require.Len(t, client.calls(), 1)

	clock.Advance(10 * time.Second)
	require.Eventually(t, func() bool {
		return len(client.calls()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, setCall{"440", "-novid"}, client.calls()[1])

	clock.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, client.calls(), 2)
}

func TestExcludedAppSkipsInjection(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	client := newFakeClient()
	newInterceptor(t, client, overrides.Config{
		GlobalLaunchOptions: "MANGOHUD=1 %command%",
		ExcludedGameIDs:     "730, 999",
	}, clock)

	client.dispatchStart(1, "730", "LaunchApp")
	client.dispatchTask(2, "CreatingProcess")

	assert.Empty(t, client.calls())
}

func TestExcludedAppClearsStalePending(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	client := newFakeClient()
	newInterceptor(t, client, overrides.Config{
		GlobalLaunchOptions: "MANGOHUD=1 %command%",
		ExcludedGameIDs:     "730",
	}, clock)

	// An aborted launch of 440 must not inject into 730's process.
	client.dispatchStart(1, "440", "LaunchApp")
	client.dispatchStart(2, "730", "LaunchApp")
	client.dispatchTask(3, "CreatingProcess")

	assert.Empty(t, client.calls())
}

func TestNonLaunchActionIgnored(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	client := newFakeClient()
	newInterceptor(t, client, overrides.Config{
		GlobalLaunchOptions: "MANGOHUD=1 %command%",
	}, clock)

	client.dispatchStart(1, "440", "VerifyFiles")
	client.dispatchTask(2, "CreatingProcess")

	assert.Empty(t, client.calls())
}

func TestOtherTaskStagesKeepPending(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	client := newFakeClient()
	client.options["440"] = ""
	newInterceptor(t, client, overrides.Config{
		GlobalLaunchOptions: "gamemoderun %command%",
	}, clock)

	client.dispatchStart(1, "440", "LaunchApp")
	client.dispatchTask(2, "LaunchingProcess")
	assert.Empty(t, client.calls())

	client.dispatchTask(3, "CreatingProcess")
	require.Equal(t, []setCall{{"440", "gamemoderun %command%"}}, client.calls())
}

func TestLastLaunchWins(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	client := newFakeClient()
	newInterceptor(t, client, overrides.Config{
		GlobalLaunchOptions: "gamemoderun %command%",
	}, clock)

	client.dispatchStart(1, "440", "LaunchApp")
	client.dispatchStart(2, "570", "LaunchApp")
	client.dispatchTask(3, "CreatingProcess")

	require.Equal(t, []setCall{{"570", "gamemoderun %command%"}}, client.calls())

	// The pending slot was consumed, a second task event injects nothing.
	client.dispatchTask(4, "CreatingProcess")
	assert.Len(t, client.calls(), 1)
}

func TestEmptyGlobalOptionsSkipsInjection(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	client := newFakeClient()
	client.options["440"] = "-novid"
	newInterceptor(t, client, overrides.Config{}, clock)

	client.dispatchStart(1, "440", "LaunchApp")
	client.dispatchTask(2, "CreatingProcess")

	assert.Empty(t, client.calls())
}

func TestDetailsTimeoutSkipsInjection(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	client := newFakeClient()
	client.withhold = true
	newInterceptor(t, client, overrides.Config{
		GlobalLaunchOptions: "MANGOHUD=1 %command%",
	}, clock)

	client.dispatchStart(1, "440", "LaunchApp")

	done := make(chan struct{})
	go func() {
		defer close(done)
		client.dispatchTask(2, "CreatingProcess")
	}()

	clock.BlockUntil(1)
	clock.Advance(interceptor.DefaultFetchTimeout)
	<-done

	assert.Empty(t, client.calls())
	client.mu.Lock()
	defer client.mu.Unlock()
	assert.True(t, client.unregistered)
}

func TestInstallIdempotent(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	ic := interceptor.New(client, &fakeSource{}, interceptor.Options{
		Clock: clockwork.NewFakeClock(),
	})
	require.NoError(t, ic.Install())
	require.NoError(t, ic.Install())

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, 2, client.hookCount)
}

// startOnlyClient exposes only the start hook surface.
type startOnlyClient struct {
	inner *fakeClient
}

func (c *startOnlyClient) AppDetails(appID string) (*steam.DetailsRequest, error) {
	return c.inner.AppDetails(appID)
}

func (c *startOnlyClient) SetLaunchOptions(appID, options string) error {
	return c.inner.SetLaunchOptions(appID, options)
}

func (c *startOnlyClient) HookGameActionStart(fn steam.GameActionStartFunc) steam.GameActionStartFunc {
	return c.inner.HookGameActionStart(fn)
}

// bareClient exposes no hook surfaces at all.
type bareClient struct{}

func (bareClient) AppDetails(string) (*steam.DetailsRequest, error) {
	return steam.NewDetailsRequest(nil), nil
}

func (bareClient) SetLaunchOptions(string, string) error { return nil }

func TestInstallPartial(t *testing.T) {
	t.Parallel()

	client := &startOnlyClient{inner: newFakeClient()}
	ic := interceptor.New(client, &fakeSource{}, interceptor.Options{
		Clock: clockwork.NewFakeClock(),
	})
	require.NoError(t, ic.Install())
	assert.True(t, ic.Installed())
}

func TestInstallNoHooks(t *testing.T) {
	t.Parallel()

	ic := interceptor.New(bareClient{}, &fakeSource{}, interceptor.Options{
		Clock: clockwork.NewFakeClock(),
	})
	assert.ErrorIs(t, ic.Install(), interceptor.ErrNoHooks)
	assert.False(t, ic.Installed())
}

func TestDelegatesToPreviousHandlers(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	client := newFakeClient()

	var startEvents, taskEvents int
	var mu sync.Mutex
	client.HookGameActionStart(func(uint64, string, string) {
		mu.Lock()
		startEvents++
		mu.Unlock()
	})
	client.HookGameActionTask(func(uint64, string) {
		mu.Lock()
		taskEvents++
		mu.Unlock()
	})

	newInterceptor(t, client, overrides.Config{
		GlobalLaunchOptions: "gamemoderun %command%",
	}, clock)

	client.dispatchStart(1, "440", "LaunchApp")
	client.dispatchTask(2, "CreatingProcess")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, startEvents)
	assert.Equal(t, 1, taskEvents)
}
