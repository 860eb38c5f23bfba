// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestReport(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{"plain error", errors.New("boom"), 1, "error: boom\n"},
		{"exit with message", Exit(3, errors.New("stale")), 3, "error: stale\n"},
		{"silent exit", Exit(1, nil), 1, ""},
		{"wrapped exit", fmt.Errorf("check: %w", Exit(2, errors.New("missing"))), 2, "error: check: missing\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer
			if code := Report(&out, test.err); code != test.wantCode {
				t.Errorf("Report code = %d, want %d", code, test.wantCode)
			}
			if out.String() != test.wantOut {
				t.Errorf("Report output = %q, want %q", out.String(), test.wantOut)
			}
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	if got := Exit(4, nil).Error(); got != "exit status 4" {
		t.Errorf("Error() = %q", got)
	}
}
