// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package heartbeat records watchdog liveness in a state file so that
// health checks can observe a daemon without access to the supervisor.
//
// The daemon calls [Write] after every watchdog ping with a [Record] of
// its progress. A checker calls [Check] with a maximum age: a record
// whose LastPing is older than that, or a missing file, means the
// daemon is not alive. A sensible maximum age is a small multiple of
// the ping interval stored in the record.
//
// The file is written atomically (write to temporary file, fsync,
// rename into place, fsync parent directory) so readers never see a
// partial record. Records are CBOR encoded with lib/codec.
package heartbeat
