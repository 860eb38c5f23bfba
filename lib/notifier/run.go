// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package notifier

import (
	"context"
	"time"
)

// turnSlice bounds each reactor wait in Run so cancellation is noticed
// within this long.
const turnSlice = 100 * time.Millisecond

// Run drives the notifier until it completes or ctx is done, turning
// the bound reactor between drives. It returns the terminal result of
// Drive, or ctx.Err() after closing the notifier on cancellation.
//
// Run owns the reactor's event loop while it runs. Do not call Run on a
// notifier bound to a reactor that another goroutine is turning.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		status, err := n.Drive()
		if status == Complete {
			return err
		}

		if ctx.Err() != nil {
			if closeErr := n.Close(); closeErr != nil {
				n.logger.Warn("closing notifier after cancellation", "error", closeErr)
			}
			return ctx.Err()
		}

		current := n.state.(*running)
		if _, err := current.handle.Turn(turnSlice); err != nil {
			_, err = n.finish(ioError("waiting for watchdog timer", err))
			return err
		}
	}
}
