// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package notifier

import "errors"

// ErrNotRunningWithSystemd is the terminal result when the supervisor
// does not accept the readiness announcement: no supervisor is present,
// or the service's notify access is disabled.
var ErrNotRunningWithSystemd = errors.New("not running with systemd")

// IsNotRunningWithSystemd reports whether err is, or wraps,
// [ErrNotRunningWithSystemd].
func IsNotRunningWithSystemd(err error) bool {
	return errors.Is(err, ErrNotRunningWithSystemd)
}

// IOError is the terminal result of an I/O failure while creating,
// registering, or polling the watchdog timer. The underlying error is
// preserved for errors.Is and errors.As.
type IOError struct {
	// Op names the step that failed, e.g. "starting watchdog timer".
	Op string

	Err error
}

func (e *IOError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *IOError) Unwrap() error { return e.Err }

// ioError converts any failure crossing the notifier boundary into an
// *IOError, leaving one that already is untouched.
func ioError(op string, err error) error {
	var existing *IOError
	if errors.As(err, &existing) {
		return err
	}
	return &IOError{Op: op, Err: err}
}
