// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"os"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns "prefix-PID-N" where N increases monotonically
// within the process. Including the PID keeps names unique across
// concurrently running test binaries, which share the abstract socket
// namespace.
//
//	name := testutil.UniqueID("notify") // "notify-4242-1", "notify-4242-2", ...
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, os.Getpid(), uniqueCounter.Add(1))
}
