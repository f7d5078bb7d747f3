package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_PeriodicFires(t *testing.T) {
	var fired atomic.Int32
	s := newScheduler(20*time.Millisecond, time.Second, func() { fired.Add(1) })

	s.StartPeriodic(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool { return fired.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_StopPeriodicIsIdempotent(t *testing.T) {
	s := newScheduler(time.Hour, time.Hour, func() {})

	// safe without a prior Start, and safe twice
	s.StopPeriodic()
	s.StopPeriodic()

	s.StartPeriodic(context.Background())
	s.StopPeriodic()
	s.StopPeriodic()
}

func TestScheduler_StartReplacesRunningTicker(t *testing.T) {
	var fired atomic.Int32
	s := newScheduler(20*time.Millisecond, time.Hour, func() { fired.Add(1) })

	s.StartPeriodic(context.Background())
	s.StartPeriodic(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool { return fired.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_ContextCancelStopsTicker(t *testing.T) {
	var fired atomic.Int32
	s := newScheduler(20*time.Millisecond, time.Hour, func() { fired.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	s.StartPeriodic(ctx)
	cancel()

	time.Sleep(60 * time.Millisecond)
	before := fired.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, before, fired.Load())
}

func TestScheduler_BumpCollapsesRapidCalls(t *testing.T) {
	var fired atomic.Int32
	s := newScheduler(time.Hour, 50*time.Millisecond, func() { fired.Add(1) })
	defer s.Stop()

	s.Bump()
	s.Bump()
	s.Bump()

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// quiet period passed with no further bumps: still exactly one fire
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestScheduler_BumpRearmsAfterFire(t *testing.T) {
	var fired atomic.Int32
	s := newScheduler(time.Hour, 20*time.Millisecond, func() { fired.Add(1) })
	defer s.Stop()

	s.Bump()
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)

	s.Bump()
	assert.Eventually(t, func() bool { return fired.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopCancelsPendingDebounce(t *testing.T) {
	var fired atomic.Int32
	s := newScheduler(time.Hour, 50*time.Millisecond, func() { fired.Add(1) })

	s.Bump()
	s.Stop()

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestScheduler_TimersAreIndependent(t *testing.T) {
	var fired atomic.Int32
	s := newScheduler(40*time.Millisecond, 25*time.Millisecond, func() { fired.Add(1) })
	defer s.Stop()

	s.StartPeriodic(context.Background())
	s.Bump()

	// both the debounce and at least one periodic tick must land
	assert.Eventually(t, func() bool { return fired.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}
