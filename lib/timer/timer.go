// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"errors"
	"fmt"
	"time"

	"github.com/bureau-foundation/sdwatchdog/lib/reactor"
)

// ErrInvalidInterval is returned by Start for a non-positive interval.
// A zero itimerspec would disarm the timer instead of starting it.
var ErrInvalidInterval = errors.New("timer interval must be positive")

// Timer is a periodic timerfd registered with a reactor for read
// readiness. A Timer is owned by one goroutine; it has no locking.
type Timer struct {
	interval     time.Duration
	fd           int
	registration *reactor.Registration
	closed       bool
}

// Start creates a timer that expires after interval and every interval
// thereafter, and registers it with handle.
func Start(interval time.Duration, handle reactor.Reactor) (*Timer, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, interval)
	}

	fd, err := createTimerfd(interval)
	if err != nil {
		return nil, err
	}

	registration, err := handle.Register(fd)
	if err != nil {
		closeTimerfd(fd)
		return nil, fmt.Errorf("registering timer with %s reactor: %w", handle.Backend(), err)
	}

	return &Timer{
		interval:     interval,
		fd:           fd,
		registration: registration,
	}, nil
}

// Poll reports whether the timer has expired since the last Poll that
// returned true. It never blocks. Until the reactor has observed the
// descriptor as readable, Poll returns false without touching it.
func (t *Timer) Poll() (bool, error) {
	if t.closed {
		return false, reactor.ErrClosed
	}
	if !t.registration.Ready() {
		return false, nil
	}

	count, err := readTimerfd(t.fd)
	if err != nil {
		return false, err
	}

	// The registration is one-shot: without this every later
	// expiration would go unnoticed.
	if err := t.registration.Rearm(); err != nil {
		return false, fmt.Errorf("re-arming timer registration: %w", err)
	}
	return count > 0, nil
}

// Interval returns the period the timer was started with.
func (t *Timer) Interval() time.Duration { return t.interval }

// Fd returns the timer's descriptor, or -1 once closed.
func (t *Timer) Fd() int {
	if t.closed {
		return -1
	}
	return t.fd
}

// Close deregisters the timer from its reactor and closes the
// descriptor. Safe to call more than once.
func (t *Timer) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	deregisterErr := t.registration.Deregister()
	closeErr := closeTimerfd(t.fd)
	if deregisterErr != nil {
		return fmt.Errorf("deregistering timer: %w", deregisterErr)
	}
	return closeErr
}
