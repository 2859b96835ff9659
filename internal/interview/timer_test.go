package interview

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	store := NewStore()
	store.StartTimer(3)

	var expirations int32
	done := make(chan struct{})

	c := NewCountdown(time.Millisecond)
	c.Start(store.TickTimer, func() {
		if atomic.AddInt32(&expirations, 1) == 1 {
			close(done)
		}
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown never expired")
	}

	// Give a superseded loop time to misbehave if it were going to.
	time.Sleep(20 * time.Millisecond)
	if n := atomic.LoadInt32(&expirations); n != 1 {
		t.Fatalf("expire ran %d times, want 1", n)
	}
}

func TestCountdownStopPreventsExpiry(t *testing.T) {
	store := NewStore()
	store.StartTimer(2)

	var expirations int32
	c := NewCountdown(time.Millisecond)
	c.Start(store.TickTimer, func() {
		atomic.AddInt32(&expirations, 1)
	})
	c.Stop()
	store.StopTimer()

	time.Sleep(20 * time.Millisecond)
	if n := atomic.LoadInt32(&expirations); n != 0 {
		t.Fatalf("expire ran %d times after stop, want 0", n)
	}
}

func TestCountdownRestartSupersedes(t *testing.T) {
	store := NewStore()
	store.StartTimer(1)

	var first, second int32
	c := NewCountdown(time.Millisecond)
	c.Start(store.TickTimer, func() { atomic.AddInt32(&first, 1) })

	// Starting a new question resets and restarts the timer.
	store.StartTimer(2)
	done := make(chan struct{})
	c.Start(store.TickTimer, func() {
		if atomic.AddInt32(&second, 1) == 1 {
			close(done)
		}
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("restarted countdown never expired")
	}

	time.Sleep(20 * time.Millisecond)
	if atomic.LoadInt32(&second) != 1 {
		t.Fatalf("second countdown expired %d times, want 1", second)
	}
}
