// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package timer

import (
	"errors"
	"time"
)

func createTimerfd(time.Duration) (int, error) { return -1, errors.ErrUnsupported }

func readTimerfd(int) (uint64, error) { return 0, errors.ErrUnsupported }

func closeTimerfd(int) error { return nil }
