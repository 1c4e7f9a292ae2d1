package game

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestRoundTimerCountsDownAndExpiresOnce(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := NewRoundTimer(clock)
	ticks := make(chan int, 16)
	expired := make(chan struct{}, 4)

	timer.Start(context.Background(), 3,
		func(_ context.Context, remaining int) { ticks <- remaining },
		func(context.Context) { expired <- struct{}{} },
	)
	if !timer.Running() {
		t.Fatalf("expected timer to be running")
	}

	expectInt(t, ticks, 3)
	for _, want := range []int{2, 1, 0} {
		clock.Advance(time.Second)
		expectInt(t, ticks, want)
	}
	expectSignal(t, expired)

	if timer.Running() {
		t.Fatalf("expected timer to be idle after expiry")
	}

	clock.Advance(5 * time.Second)
	expectNoInt(t, ticks)
	select {
	case <-expired:
		t.Fatalf("expiry delivered twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRoundTimerCancelStopsCallbacks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := NewRoundTimer(clock)
	ticks := make(chan int, 16)

	timer.Start(context.Background(), 5,
		func(_ context.Context, remaining int) { ticks <- remaining },
		func(context.Context) { t.Error("unexpected expiry") },
	)
	expectInt(t, ticks, 5)

	timer.Cancel()
	if timer.Running() {
		t.Fatalf("expected timer to be idle after cancel")
	}

	clock.Advance(10 * time.Second)
	expectNoInt(t, ticks)

	// cancelling an idle timer is a no-op
	timer.Cancel()
}

func TestRoundTimerCancelReleasesBlockedCallback(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := NewRoundTimer(clock)
	entered := make(chan struct{})
	var calls atomic.Int32

	timer.Start(context.Background(), 5,
		func(ctx context.Context, _ int) {
			if calls.Add(1) == 1 {
				close(entered)
			}
			<-ctx.Done()
		},
		func(context.Context) { t.Error("unexpected expiry") },
	)
	<-entered

	timer.Cancel()
	clock.Advance(10 * time.Second)
	time.Sleep(50 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single tick before cancel, got %d", got)
	}
}

func TestRoundTimerStartReplacesRunningCountdown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := NewRoundTimer(clock)
	first := make(chan int, 16)
	second := make(chan int, 16)
	noExpire := func(context.Context) {}

	timer.Start(context.Background(), 5, func(_ context.Context, r int) { first <- r }, noExpire)
	timer.Start(context.Background(), 5, func(_ context.Context, r int) { second <- r }, noExpire)

	expectInt(t, second, 5)
	clock.Advance(time.Second)
	expectInt(t, second, 4)

	// The first countdown may have delivered its initial tick before being replaced, nothing more.
	for {
		select {
		case v := <-first:
			if v != 5 {
				t.Fatalf("replaced countdown kept ticking: %d", v)
			}
			continue
		case <-time.After(50 * time.Millisecond):
		}
		break
	}
	timer.Cancel()
}

func expectInt(t *testing.T, ch <-chan int, want int) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %d", want)
	}
}

func expectNoInt(t *testing.T, ch <-chan int) {
	t.Helper()
	select {
	case got := <-ch:
		t.Fatalf("unexpected value %d", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func expectSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for signal")
	}
}
