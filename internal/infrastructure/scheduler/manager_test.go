package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
	ran   chan struct{}
}

func newFakeSweeper() *fakeSweeper { return &fakeSweeper{ran: make(chan struct{}, 16)} }

func (f *fakeSweeper) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, now)
	f.mu.Unlock()
	select {
	case f.ran <- struct{}{}:
	default:
	}
	return 1, f.err
}

func (f *fakeSweeper) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestManager_RunsSweepImmediatelyAndStops(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)
	fixed := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	sw := newFakeSweeper()
	require.NoError(t, m.RegisterExpirySweep(sw, time.Hour))
	m.Start()
	m.Start()

	select {
	case <-sw.ran:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep did not run after start")
	}
	require.NoError(t, m.Shutdown())

	assert.Equal(t, 1, sw.count(), "an hourly job runs once right after start")
	sw.mu.Lock()
	assert.True(t, sw.calls[0].Equal(fixed))
	sw.mu.Unlock()
}

func TestManager_SweepErrorKeepsScheduling(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	sw := newFakeSweeper()
	sw.err = errors.New("db gone")
	require.NoError(t, m.RegisterExpirySweep(sw, 20*time.Millisecond))
	m.Start()
	t.Cleanup(func() { _ = m.Shutdown() })

	deadline := time.After(5 * time.Second)
	for sw.count() < 2 {
		select {
		case <-sw.ran:
		case <-deadline:
			t.Fatalf("sweep ran %d times, want at least 2", sw.count())
		}
	}
}

func TestManager_RejectsNonPositiveInterval(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	assert.Error(t, m.RegisterExpirySweep(newFakeSweeper(), 0))
}

func TestManager_ShutdownBeforeStart(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)
	assert.NoError(t, m.Shutdown())
}
