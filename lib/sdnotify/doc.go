// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sdnotify implements the client side of the systemd notify
// protocol (sd_notify(3)): newline-separated KEY=VALUE assignments sent
// as one datagram to the unixgram socket named by $NOTIFY_SOCKET, and
// the $WATCHDOG_USEC/$WATCHDOG_PID watchdog discovery of
// sd_watchdog_enabled(3).
//
// The protocol itself is delegated to go-systemd's daemon package
// (SdNotify and SdWatchdogEnabled). This package adds validated
// multi-state messages and [Environment], the supervisor consumed by
// lib/notifier. Environment reads the watchdog variables lazily so they
// are only consulted after readiness has been announced.
//
// Sending never blocks: the supervisor end is a datagram socket, and a
// missing or unreachable socket is reported, not waited for.
package sdnotify
