// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package timer exposes a monotonic periodic OS timer (timerfd) as a
// readiness source registered with a [reactor.Reactor].
//
// [Start] arms the timer to expire after one interval and every
// interval thereafter. [Timer.Poll] never blocks: it returns true once
// per batch of expirations the reactor has reported, consuming the
// kernel's expiration counter, and re-arms the reactor registration
// after every check. Expirations that elapse while nobody polls
// accumulate in the counter and are reported on the next Poll, so no
// tick is lost and none is reported twice.
//
// [Timer.Close] deregisters the descriptor and closes it.
package timer
