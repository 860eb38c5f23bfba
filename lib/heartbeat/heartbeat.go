// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package heartbeat

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bureau-foundation/sdwatchdog/lib/clock"
	"github.com/bureau-foundation/sdwatchdog/lib/codec"
)

// Record is one liveness snapshot.
type Record struct {
	// Unit identifies the daemon, typically its systemd unit name.
	Unit string `cbor:"unit"`

	PID int `cbor:"pid"`

	// Backend is the reactor backend driving the watchdog timer.
	Backend string `cbor:"backend,omitempty"`

	// Interval is the watchdog ping interval.
	Interval time.Duration `cbor:"interval"`

	Pings    uint64 `cbor:"pings"`
	Failures uint64 `cbor:"failures"`

	// LastPing is when the most recent ping was attempted. Check
	// judges freshness from it.
	LastPing time.Time `cbor:"last_ping"`
}

// Write atomically replaces the heartbeat file at path with record.
// The parent directory must already exist. The file is created with
// mode 0644 so unprivileged health checks can read it.
func Write(path string, record Record) error {
	data, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding heartbeat record: %w", err)
	}

	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating temporary heartbeat file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary heartbeat file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary heartbeat file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary heartbeat file: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming heartbeat file into place: %w", err)
	}

	parentDirectory, err := os.Open(filepath.Dir(path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}
	return nil
}

// Read parses the heartbeat file at path. A missing file yields an
// error wrapping os.ErrNotExist.
func Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}

	var record Record
	if err := codec.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("parsing heartbeat file %s: %w", path, err)
	}
	return record, nil
}

// Diagnose returns the heartbeat file at path in CBOR diagnostic
// notation, for inspecting records written by other versions.
func Diagnose(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	diagnostic, err := codec.Diagnose(data)
	if err != nil {
		return "", fmt.Errorf("decoding heartbeat file %s: %w", path, err)
	}
	return diagnostic, nil
}

// Check reads the heartbeat file and reports whether its last ping is
// within maxAge of now on c. A missing file reports not alive with a
// nil error. A stale record is returned alongside false so callers can
// report how old it is. A record stamped in the future (the wall clock
// stepped backwards) counts as fresh.
//
// Other failures (permission denied, corrupt record) are returned as
// errors so callers can tell "no heartbeat" from "unreadable heartbeat".
func Check(path string, maxAge time.Duration, c clock.Clock) (Record, bool, error) {
	record, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}

	if record.LastPing.IsZero() {
		return record, false, nil
	}
	if clock.Since(c, record.LastPing) > maxAge {
		return record, false, nil
	}
	return record, true, nil
}

// Clear removes the heartbeat file. Returns nil when it does not exist.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing heartbeat file: %w", err)
	}
	return nil
}
