// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sdnotify

import (
	"os"
	"time"
)

// Environment is the supervisor as described by this process's
// environment. The watchdog variables are read once, on the first
// WatchdogTimeout call, which the notifier makes only after readiness
// has been accepted.
type Environment struct {
	unsetEnvironment bool

	watchdogQueried bool
	watchdogTimeout time.Duration
	watchdogEnabled bool
}

// NewEnvironment returns an Environment. With unsetEnvironment true the
// watchdog variables are removed when they are read, and $NOTIFY_SOCKET
// is removed by [Environment.Release].
func NewEnvironment(unsetEnvironment bool) *Environment {
	return &Environment{unsetEnvironment: unsetEnvironment}
}

// NotifyReady sends READY=1. False means no supervisor is listening or
// the message could not be delivered.
func (e *Environment) NotifyReady() bool {
	sent, err := Notify(false, Ready)
	return err == nil && sent
}

// NotifyWatchdog sends WATCHDOG=1.
func (e *Environment) NotifyWatchdog() error {
	_, err := Notify(false, Watchdog)
	return err
}

// WatchdogTimeout returns the watchdog timeout, reading the environment
// on the first call only.
func (e *Environment) WatchdogTimeout() (time.Duration, bool) {
	if !e.watchdogQueried {
		e.watchdogQueried = true
		e.watchdogTimeout, e.watchdogEnabled = WatchdogEnabled(e.unsetEnvironment)
	}
	return e.watchdogTimeout, e.watchdogEnabled
}

// Notify sends further states, such as STOPPING=1, to the supervisor.
func (e *Environment) Notify(states ...State) (bool, error) {
	return Notify(false, states...)
}

// Release removes $NOTIFY_SOCKET when the Environment was created with
// unsetEnvironment. Call it after the last notification.
func (e *Environment) Release() {
	if e.unsetEnvironment {
		os.Unsetenv(NotifySocketVariable)
	}
}
