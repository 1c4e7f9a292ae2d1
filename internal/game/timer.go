package game

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// TickFunc receives the remaining seconds of a countdown. ctx is done once the countdown is cancelled.
type TickFunc func(ctx context.Context, remaining int)

// ExpireFunc is invoked once when a countdown reaches zero.
type ExpireFunc func(ctx context.Context)

// RoundTimer is a cancellable one-second countdown. At most one countdown runs per timer.
//
// Callbacks run on the countdown goroutine while holding fireMu, after checking that the
// countdown's generation is still current. Cancel bumps the generation under the same lock,
// so once it returns no callback of the cancelled countdown can run.
type RoundTimer struct {
	clock clockwork.Clock

	fireMu sync.Mutex
	gen    uint64

	stateMu sync.Mutex
	cancel  context.CancelFunc
	running bool
}

func NewRoundTimer(clock clockwork.Clock) *RoundTimer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RoundTimer{clock: clock}
}

// Start cancels any running countdown and begins a new one of the given length.
// onTick is invoked immediately with seconds, then once per elapsed second; onExpire follows
// the tick for zero.
func (t *RoundTimer) Start(ctx context.Context, seconds int, onTick TickFunc, onExpire ExpireFunc) {
	t.Cancel()

	t.fireMu.Lock()
	t.gen++
	gen := t.gen
	t.fireMu.Unlock()

	cctx, cancel := context.WithCancel(ctx)
	ticker := t.clock.NewTicker(time.Second)

	t.stateMu.Lock()
	t.cancel = cancel
	t.running = true
	t.stateMu.Unlock()

	go t.run(cctx, cancel, gen, seconds, ticker, onTick, onExpire)
}

// Cancel stops the running countdown, if any. It must not be called from inside a callback.
func (t *RoundTimer) Cancel() {
	t.stateMu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.running = false
	t.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}

	t.fireMu.Lock()
	t.gen++
	t.fireMu.Unlock()
}

// Running reports whether a countdown is active.
func (t *RoundTimer) Running() bool {
	t.stateMu.Lock()
	defer t.stateMu.Unlock()
	return t.running
}

func (t *RoundTimer) run(ctx context.Context, cancel context.CancelFunc, gen uint64, seconds int, ticker clockwork.Ticker, onTick TickFunc, onExpire ExpireFunc) {
	defer cancel()
	defer ticker.Stop()

	remaining := seconds
	if !t.fire(gen, func() { onTick(ctx, remaining) }) {
		return
	}
	for remaining > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			remaining--
			if !t.fire(gen, func() { onTick(ctx, remaining) }) {
				return
			}
		}
	}

	ticker.Stop()
	t.expire(gen, func() { onExpire(ctx) })
}

func (t *RoundTimer) fire(gen uint64, fn func()) bool {
	t.fireMu.Lock()
	defer t.fireMu.Unlock()
	if t.gen != gen {
		return false
	}
	fn()
	return true
}

func (t *RoundTimer) expire(gen uint64, fn func()) {
	t.fireMu.Lock()
	defer t.fireMu.Unlock()
	if t.gen != gen {
		return
	}
	t.gen++

	// cancel stays set so a concurrent Cancel can still release fn.
	t.stateMu.Lock()
	t.running = false
	t.stateMu.Unlock()

	fn()
}
