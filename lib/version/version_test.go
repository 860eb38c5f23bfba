// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestCommitFromSettings(t *testing.T) {
	commit, dirty := commitFromSettings([]debug.BuildSetting{
		{Key: "vcs", Value: "git"},
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.modified", Value: "true"},
	})
	if commit != "0123456789ab" {
		t.Errorf("commit = %q, want 12-character prefix", commit)
	}
	if !dirty {
		t.Error("dirty = false, want true")
	}

	commit, dirty = commitFromSettings(nil)
	if commit != GitCommit || dirty {
		t.Errorf("empty settings = (%q, %v), want (%q, false)", commit, dirty, GitCommit)
	}
}

func TestInjectedCommitWins(t *testing.T) {
	saved := GitCommit
	t.Cleanup(func() { GitCommit = saved })
	GitCommit = "feedbee"

	if commit, dirty := Commit(); commit != "feedbee" || dirty {
		t.Errorf("Commit() = (%q, %v), want (feedbee, false)", commit, dirty)
	}
	if info := Info(); !strings.HasPrefix(info, Version+" (feedbee, ") {
		t.Errorf("Info() = %q", info)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.Contains(full, runtime.Version()) {
		t.Errorf("Full() missing Go version: %q", full)
	}
	if !strings.Contains(full, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("Full() missing platform: %q", full)
	}
}
