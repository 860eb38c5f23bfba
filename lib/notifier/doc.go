// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package notifier tells a process supervisor that the service has
// started and then keeps its watchdog fed for the life of the process.
//
// A [Notifier] is a state machine advanced by [Notifier.Drive]. The
// first Drive announces readiness. If the supervisor rejects the
// announcement the notifier completes with [ErrNotRunningWithSystemd],
// which callers should discard: a daemon must behave the same with or
// without a supervisor. If the announcement succeeds and the watchdog
// is disabled, the notifier completes successfully. Otherwise it starts
// a periodic timer at half the watchdog timeout, registers it with a
// reactor, and from then on every Drive pings the watchdog when the
// timer has fired and reports [Pending]. It never completes in that
// phase; the owner stops it with [Notifier.Close].
//
// Drive never blocks. The owner re-drives after the reactor reports
// the timer readable, or on any other scheduling opportunity.
// [Notifier.Run] is a ready-made loop that alternates Drive with
// reactor turns until completion or context cancellation.
//
// Failures are one of two kinds: [ErrNotRunningWithSystemd], and
// [*IOError] wrapping an I/O failure while setting up or polling the
// timer. Failed watchdog pings are logged, counted in [Stats], and
// otherwise ignored.
//
// A Notifier is owned by one goroutine and has no internal locking.
package notifier
