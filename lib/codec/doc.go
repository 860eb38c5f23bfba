// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR encoding configuration for on-disk
// state, currently the liveness record of lib/heartbeat.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items, so
// the same record always produces identical bytes. Times are encoded
// as RFC 3339 strings with nanosecond precision, which keeps a record
// readable in diagnostic notation and preserves sub-second ping stamps.
//
//	data, err := codec.Marshal(record)
//	err = codec.Unmarshal(data, &record)
package codec
