// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable wall-clock source.
//
// Code that stamps events (ping times, heartbeat records) or judges
// their age takes a [Clock] instead of calling time.Now directly. In
// production [Real] wraps the time package; tests inject [Fake] and
// move time explicitly with [FakeClock.Advance].
//
// Periodic scheduling is deliberately absent: liveness cadence comes
// from the kernel timer in lib/timer, not from this package.
package clock
