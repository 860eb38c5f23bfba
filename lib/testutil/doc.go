// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [SocketDir] creates a short temporary directory in /tmp for Unix
// domain sockets, whose paths are limited to 108 bytes (sun_path), a
// limit t.TempDir() paths can exceed.
//
// [ListenNotifySocket] stands in for the supervisor end of the notify
// protocol: it binds a unixgram socket, points NOTIFY_SOCKET at it, and
// delivers every received datagram on a channel.
//
// [RequireReceive] encapsulates the select-with-timeout safety valve so
// individual tests do not need direct time.After calls.
//
// [UniqueID] generates monotonically increasing identifiers, used for
// abstract socket names that must not collide between tests.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
