// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build reactor_poll

package reactor

// DefaultBackend is the backend used by [Default] and by [New] with an
// empty name. This build selects poll(2) via the reactor_poll tag.
const DefaultBackend = BackendPoll
