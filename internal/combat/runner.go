package combat

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Runner steps a Session once per Interval from a single goroutine, so
// ticks never overlap.
type Runner struct {
	Session  *Session
	Interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(s *Session, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{Session: s, Interval: interval}
}

// Start stops any previous loop, starts the session and begins ticking.
// The loop ends when the battle terminates, ctx is done, or Reset is called.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()

	if err := r.Session.Start(); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel, r.done = cancel, done
	go r.loop(ctx, done)
	return nil
}

// Reset stops scheduling, waits for a tick in flight to finish and then
// resets the session. Calling it repeatedly is harmless.
func (r *Runner) Reset() {
	r.mu.Lock()
	r.stopLocked()
	r.mu.Unlock()
	r.Session.Reset()
}

// Done is closed when the current loop exits. It is nil before Start.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

func (r *Runner) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	slog.Debug("runner started", "interval", r.Interval)
	for {
		select {
		case <-ctx.Done():
			slog.Debug("runner stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			if _, ok := r.Session.Step(); !ok || r.Session.Phase() != PhaseRunning {
				return
			}
		}
	}
}
