// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/sdwatchdog/lib/reactor"
)

func newReactor(t *testing.T, backend string) reactor.Reactor {
	t.Helper()
	handle, err := reactor.New(backend)
	if err != nil {
		t.Fatalf("reactor.New(%q): %v", backend, err)
	}
	t.Cleanup(func() { handle.Close() })
	return handle
}

func startTimer(t *testing.T, interval time.Duration, handle reactor.Reactor) *Timer {
	t.Helper()
	timer, err := Start(interval, handle)
	if err != nil {
		t.Fatalf("Start(%v): %v", interval, err)
	}
	t.Cleanup(func() { timer.Close() })
	return timer
}

func mustPoll(t *testing.T, timer *Timer) bool {
	t.Helper()
	fired, err := timer.Poll()
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	return fired
}

var backends = []string{reactor.BackendEpoll, reactor.BackendPoll}

func TestStartRejectsNonPositiveInterval(t *testing.T) {
	t.Parallel()
	handle := newReactor(t, reactor.BackendEpoll)
	for _, interval := range []time.Duration{0, -time.Second} {
		_, err := Start(interval, handle)
		if !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("Start(%v) error = %v, want ErrInvalidInterval", interval, err)
		}
	}
	if got := handle.Registered(); got != 0 {
		t.Errorf("Registered() = %d after rejected starts, want 0", got)
	}
}

func TestPollReportsEachTick(t *testing.T) {
	t.Parallel()
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			t.Parallel()
			handle := newReactor(t, backend)
			timer := startTimer(t, 20*time.Millisecond, handle)

			if timer.Interval() != 20*time.Millisecond {
				t.Errorf("Interval() = %v", timer.Interval())
			}
			if mustPoll(t, timer) {
				t.Fatal("Poll reported a tick before the reactor saw one")
			}

			for tick := 1; tick <= 3; tick++ {
				marked, err := handle.Turn(time.Second)
				if err != nil {
					t.Fatalf("Turn: %v", err)
				}
				if marked != 1 {
					t.Fatalf("tick %d: Turn marked %d registrations, want 1", tick, marked)
				}
				if !mustPoll(t, timer) {
					t.Fatalf("tick %d: Poll = false after the reactor reported readiness", tick)
				}
				// Consumed: nothing more until the reactor reports again.
				if mustPoll(t, timer) {
					t.Fatalf("tick %d: Poll reported the same tick twice", tick)
				}
			}
		})
	}
}

func TestPollCoalescesMissedTicks(t *testing.T) {
	t.Parallel()
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			t.Parallel()
			handle := newReactor(t, backend)
			timer := startTimer(t, 10*time.Millisecond, handle)

			// Several expirations elapse while nobody polls. They are
			// held by the kernel counter, not lost.
			time.Sleep(55 * time.Millisecond)

			if marked, err := handle.Turn(0); err != nil || marked != 1 {
				t.Fatalf("Turn after missed ticks = (%d, %v), want (1, nil)", marked, err)
			}
			if !mustPoll(t, timer) {
				t.Fatal("Poll = false after ticks elapsed unobserved")
			}
			if mustPoll(t, timer) {
				t.Fatal("Poll reported the consumed batch a second time")
			}

			// The registration was re-armed, so the next tick arrives.
			if marked, err := handle.Turn(time.Second); err != nil || marked != 1 {
				t.Fatalf("Turn after re-arm = (%d, %v), want (1, nil)", marked, err)
			}
			if !mustPoll(t, timer) {
				t.Fatal("Poll = false for the tick after re-arm")
			}
		})
	}
}

func TestPollCadence(t *testing.T) {
	t.Parallel()
	handle := newReactor(t, reactor.BackendEpoll)
	interval := 50 * time.Millisecond
	start := time.Now()
	timer := startTimer(t, interval, handle)

	var fired []time.Duration
	for len(fired) < 3 {
		if _, err := handle.Turn(time.Second); err != nil {
			t.Fatalf("Turn: %v", err)
		}
		if mustPoll(t, timer) {
			fired = append(fired, time.Since(start))
		}
	}
	for index, elapsed := range fired {
		earliest := time.Duration(index+1) * interval
		if elapsed < earliest {
			t.Errorf("tick %d observed at %v, before %v", index+1, elapsed, earliest)
		}
	}
}

// Not parallel: the descriptor probe after Close must not race with
// another test reusing the same descriptor number.
func TestCloseReleasesDescriptor(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			handle := newReactor(t, backend)
			timer, err := Start(time.Hour, handle)
			if err != nil {
				t.Fatalf("Start: %v", err)
			}
			fd := timer.Fd()
			if got := handle.Registered(); got != 1 {
				t.Fatalf("Registered() = %d, want 1", got)
			}

			if err := timer.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
			if err := timer.Close(); err != nil {
				t.Fatalf("second Close: %v", err)
			}

			if got := handle.Registered(); got != 0 {
				t.Errorf("Registered() after Close = %d, want 0", got)
			}
			if timer.Fd() != -1 {
				t.Errorf("Fd() after Close = %d, want -1", timer.Fd())
			}
			if _, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0); err != unix.EBADF {
				t.Errorf("fcntl on closed timer descriptor = %v, want EBADF", err)
			}
			if _, err := timer.Poll(); !errors.Is(err, reactor.ErrClosed) {
				t.Errorf("Poll after Close = %v, want ErrClosed", err)
			}
		})
	}
}

func TestStartOnClosedReactor(t *testing.T) {
	t.Parallel()
	handle := newReactor(t, reactor.BackendEpoll)
	handle.Close()

	_, err := Start(time.Second, handle)
	if !errors.Is(err, reactor.ErrClosed) {
		t.Fatalf("Start on closed reactor = %v, want ErrClosed", err)
	}
}
