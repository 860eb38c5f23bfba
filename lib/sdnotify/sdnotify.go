// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sdnotify

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Environment variable names defined by systemd.
const (
	NotifySocketVariable = "NOTIFY_SOCKET"
	WatchdogUsecVariable = "WATCHDOG_USEC"
	WatchdogPIDVariable  = "WATCHDOG_PID"
)

// State is one KEY=VALUE assignment of the notify protocol.
type State string

const (
	// Ready reports that service startup is finished.
	Ready State = daemon.SdNotifyReady

	// Stopping reports that the service is beginning its shutdown.
	Stopping State = daemon.SdNotifyStopping

	// Watchdog is the keep-alive ping.
	Watchdog State = daemon.SdNotifyWatchdog
)

// Status returns a free-form STATUS= state.
func Status(text string) State { return State("STATUS=" + text) }

// ErrNoStates is returned when a notification carries no states.
var ErrNoStates = errors.New("no notification states given")

// encode joins states into one message, one assignment per line.
func encode(states []State) (string, error) {
	if len(states) == 0 {
		return "", ErrNoStates
	}
	lines := make([]string, len(states))
	for index, state := range states {
		if strings.ContainsRune(string(state), '\n') {
			return "", fmt.Errorf("notify state %q contains a newline", state)
		}
		if !strings.ContainsRune(string(state), '=') {
			return "", fmt.Errorf("notify state %q is not a KEY=VALUE assignment", state)
		}
		lines[index] = string(state)
	}
	return strings.Join(lines, "\n"), nil
}

// Notify sends states as one datagram to the socket named by
// $NOTIFY_SOCKET. It returns (false, nil) when the variable is unset
// and (true, nil) once the message is written. With unsetEnvironment
// true the variable is removed, so later calls find no supervisor.
func Notify(unsetEnvironment bool, states ...State) (bool, error) {
	message, err := encode(states)
	if err != nil {
		return false, err
	}
	sent, err := daemon.SdNotify(unsetEnvironment, message)
	if err != nil {
		return false, fmt.Errorf("sending %q to notify socket: %w", message, err)
	}
	return sent, nil
}

// WatchdogEnabled reports the watchdog timeout configured for this
// process. The watchdog is enabled when $WATCHDOG_USEC holds a positive
// integer and $WATCHDOG_PID is either unset or names this process.
// Malformed values count as disabled.
func WatchdogEnabled(unsetEnvironment bool) (time.Duration, bool) {
	timeout, err := daemon.SdWatchdogEnabled(unsetEnvironment)
	if err != nil || timeout <= 0 {
		return 0, false
	}
	return timeout, true
}
