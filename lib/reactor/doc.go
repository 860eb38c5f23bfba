// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package reactor provides a minimal readiness reactor for raw file
// descriptors. A [Reactor] watches registered descriptors for read
// readiness; a caller-driven [Reactor.Turn] waits for events and marks
// the matching [Registration] as ready.
//
// Readiness is one-shot. Once a registration has been reported ready it
// stays ready, and the reactor stops watching it, until the owner calls
// [Registration.Rearm]. Forgetting to re-arm after consuming readiness
// means no further events are ever delivered for that descriptor.
//
// Two backends implement the same contract:
//
//   - "epoll": epoll(7) with EPOLLONESHOT, re-armed with EPOLL_CTL_MOD.
//   - "poll": poll(2) over the armed descriptors, one-shot emulated by
//     dropping a descriptor from the watch set once it fires.
//
// A backend is chosen either at configuration time with [New], or at
// build time: [Default] returns a lazily created process-wide reactor
// of [DefaultBackend], which is "epoll" unless the binary is built with
// the reactor_poll build tag.
//
// Reactors are safe for concurrent use, but the intended model is a
// single goroutine that alternates between driving its work and
// calling Turn.
//
// Both backends are Linux-only. On other platforms [New] reports every
// backend as unknown.
package reactor
