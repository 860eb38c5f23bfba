// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for the sdwatchdog
// binary: reporting an error to stderr before (or after) the structured
// logger exists, and mapping it to an exit code.
package process
