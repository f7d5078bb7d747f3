package service

import (
	"context"
	"sync"
	"time"
)

// scheduler owns the two sync timers: the periodic ticker and the on-change
// debounce. The two are independent — bumping the debounce never resets the
// periodic ticker and vice versa. Both fire the same callback.
type scheduler struct {
	interval time.Duration
	debounce time.Duration
	fire     func()

	mu            sync.Mutex
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	debounceTimer *time.Timer
}

// newScheduler creates a scheduler that calls fire from both timers. Both
// timers are idle until StartPeriodic or Bump is called. Non-positive
// durations fall back to 5 minutes and 5 seconds respectively.
func newScheduler(interval, debounce time.Duration, fire func()) *scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if debounce <= 0 {
		debounce = 5 * time.Second
	}
	return &scheduler{interval: interval, debounce: debounce, fire: fire}
}

// StartPeriodic stops any previously running ticker, then launches a
// background goroutine that calls fire every interval. The goroutine exits
// when ctx is cancelled or StopPeriodic is called.
func (s *scheduler) StartPeriodic(ctx context.Context) {
	s.StopPeriodic()

	s.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		t := time.NewTicker(s.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				s.fire()
			}
		}
	}()
}

// StopPeriodic cancels the ticker goroutine and blocks until it has fully
// exited. Safe to call when the ticker is not running (no-op in that case).
func (s *scheduler) StopPeriodic() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// Bump (re)arms the debounce timer: fire runs once the full quiet period has
// elapsed with no further bumps.
func (s *scheduler) Bump() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounceTimer == nil {
		s.debounceTimer = time.AfterFunc(s.debounce, s.fire)
		return
	}
	s.debounceTimer.Reset(s.debounce)
}

// Stop halts both timers. Idempotent; the scheduler can be restarted
// afterwards with StartPeriodic / Bump.
func (s *scheduler) Stop() {
	s.StopPeriodic()

	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
	s.mu.Unlock()
}
