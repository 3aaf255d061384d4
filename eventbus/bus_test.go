// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eventbus

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, ch <-chan Event, n int, timeout time.Duration) []Event {
	t.Helper()
	out := make([]Event, 0, n)
	deadline := time.After(timeout)
	for len(out) < n {
		select {
		case e := <-ch:
			out = append(out, e)
		case <-deadline:
			return out
		}
	}
	return out
}

func TestPublishSubscribeOrdering(t *testing.T) {
	b := New(Config{DeadLetterCapacity: -1})
	defer b.Shutdown()

	_, ch := b.Subscribe(WalletUpdate)
	for i := 0; i < 10; i++ {
		b.Publish(WalletUpdate, fmt.Sprintf("payload-%d", i), Low)
	}

	got := drain(t, ch, 10, time.Second)
	require.Len(t, got, 10)
	for i, e := range got {
		assert.Equal(t, fmt.Sprintf("payload-%d", i), e.Payload)
	}
}

func TestRateLimitingDropsExcessButCriticalBypasses(t *testing.T) {
	b := New(Config{DeadLetterCapacity: -1, RateLimitPerSecond: 100})
	defer b.Shutdown()

	_, walletCh := b.Subscribe(WalletUpdate)
	_, alertCh := b.Subscribe(SecurityAlert)

	for i := 0; i < 150; i++ {
		b.Publish(WalletUpdate, "x", Low)
	}
	b.Publish(SecurityAlert, "breach", Critical)

	got := drain(t, walletCh, 150, 500*time.Millisecond)
	assert.LessOrEqual(t, len(got), 100)

	alerts := drain(t, alertCh, 1, time.Second)
	require.Len(t, alerts, 1)
	assert.Equal(t, Critical, alerts[0].Priority)
}

func TestSubscribeWithReplayYieldsHistoryFirst(t *testing.T) {
	dir := t.TempDir()
	b := New(Config{HistoryPath: filepath.Join(dir, "events.log"), DeadLetterCapacity: -1})
	defer b.Shutdown()

	b.Publish(SecurityAlert, "initial breach", Critical)
	time.Sleep(50 * time.Millisecond) // let the dispatcher persist + ring the event

	_, ch := b.SubscribeWithReplay(SecurityAlert)
	got := drain(t, ch, 1, time.Second)
	require.Len(t, got, 1)
	assert.Equal(t, "initial breach", got[0].Payload)
}

func TestDeadLetterRecordsFailures(t *testing.T) {
	b := New(Config{})
	defer b.Shutdown()

	id, ch := b.Subscribe(WalletUpdate)
	b.Publish(WalletUpdate, "payload", Low)
	evts := drain(t, ch, 1, time.Second)
	require.Len(t, evts, 1)

	b.ReportFailedProcessing(id, evts[0], "downstream unavailable")
	letters := b.DeadLetters()
	require.Len(t, letters, 1)
	assert.Equal(t, "downstream unavailable", letters[0].Reason)
}

func TestShutdownClosesSubscriberChannels(t *testing.T) {
	b := New(Config{DeadLetterCapacity: -1})
	_, ch := b.Subscribe(WalletUpdate)
	b.Shutdown()

	_, open := <-ch
	assert.False(t, open)
}

func TestRequiresHighPriorityForSecurityBoundaryTypes(t *testing.T) {
	assert.True(t, RequiresHighPriority(CoreRequest))
	assert.True(t, RequiresHighPriority(CoreResponse))
	assert.False(t, RequiresHighPriority(WalletUpdate))
}
