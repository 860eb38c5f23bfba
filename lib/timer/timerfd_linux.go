// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// createTimerfd creates a non-blocking CLOCK_MONOTONIC timerfd whose
// first expiry and period are both interval.
func createTimerfd(interval time.Duration) (int, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return -1, fmt.Errorf("timerfd_create: %w", err)
	}

	period := unix.NsecToTimespec(interval.Nanoseconds())
	setting := unix.ItimerSpec{Interval: period, Value: period}
	if err := unix.TimerfdSettime(fd, 0, &setting, nil); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("timerfd_settime: %w", err)
	}
	return fd, nil
}

// readTimerfd returns the number of expirations since the last read,
// or zero when none are pending.
func readTimerfd(fd int) (uint64, error) {
	var buffer [8]byte
	for {
		count, err := unix.Read(fd, buffer[:])
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, nil
		case err != nil:
			return 0, fmt.Errorf("reading timerfd: %w", err)
		case count != len(buffer):
			return 0, fmt.Errorf("reading timerfd: short read of %d bytes", count)
		}
		return binary.NativeEndian.Uint64(buffer[:]), nil
	}
}

func closeTimerfd(fd int) error {
	if err := unix.Close(fd); err != nil {
		return fmt.Errorf("closing timerfd: %w", err)
	}
	return nil
}
