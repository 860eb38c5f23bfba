// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sdwatchdog.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Unit != "sdwatchdog" {
		t.Errorf("expected unit=sdwatchdog, got %s", cfg.Unit)
	}
	if cfg.Reactor.Backend != "" {
		t.Errorf("expected build-default reactor backend, got %q", cfg.Reactor.Backend)
	}
	if cfg.Logging.Format != FormatAuto {
		t.Errorf("expected logging.format=auto, got %s", cfg.Logging.Format)
	}
	if cfg.Heartbeat.Path != "" {
		t.Errorf("expected heartbeat disabled, got path %s", cfg.Heartbeat.Path)
	}
	if cfg.Heartbeat.MaxAge != time.Minute {
		t.Errorf("expected heartbeat.max_age=1m, got %v", cfg.Heartbeat.MaxAge)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_RequiresConfigVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when SDWATCHDOG_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "SDWATCHDOG_CONFIG environment variable not set") {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestLoad_WithConfigVariable(t *testing.T) {
	path := writeConfig(t, `
unit: billing-worker
reactor:
  backend: poll
`)
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Unit != "billing-worker" {
		t.Errorf("expected unit=billing-worker, got %s", cfg.Unit)
	}
	if cfg.Reactor.Backend != "poll" {
		t.Errorf("expected reactor.backend=poll, got %s", cfg.Reactor.Backend)
	}
	// Unset sections keep their defaults.
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default logging.level=info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
notify:
  unset_environment: true
  status: serving
logging:
  level: debug
  format: json
heartbeat:
  path: /run/sdwatchdog/heartbeat.cbor
  max_age: 45s
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if !cfg.Notify.UnsetEnvironment {
		t.Error("expected notify.unset_environment=true")
	}
	if cfg.Notify.Status != "serving" {
		t.Errorf("expected notify.status=serving, got %q", cfg.Notify.Status)
	}
	if cfg.Logging.Format != FormatJSON {
		t.Errorf("expected logging.format=json, got %s", cfg.Logging.Format)
	}
	if cfg.Heartbeat.Path != "/run/sdwatchdog/heartbeat.cbor" {
		t.Errorf("expected heartbeat.path, got %s", cfg.Heartbeat.Path)
	}
	if cfg.Heartbeat.MaxAge != 45*time.Second {
		t.Errorf("expected heartbeat.max_age=45s, got %v", cfg.Heartbeat.MaxAge)
	}
	level, err := cfg.LogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("LogLevel() = (%v, %v), want debug", level, err)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeConfig(t, "heartbeat: [not, a, mapping]\n")
	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestHeartbeatPathExpansion(t *testing.T) {
	path := writeConfig(t, `
heartbeat:
  path: ${RUNTIME_DIRECTORY:-/run/sdwatchdog}/heartbeat.cbor
`)

	t.Setenv("RUNTIME_DIRECTORY", "")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.Heartbeat.Path != "/run/sdwatchdog/heartbeat.cbor" {
		t.Errorf("expected default expansion, got %s", cfg.Heartbeat.Path)
	}

	t.Setenv("RUNTIME_DIRECTORY", "/run/billing")
	cfg, err = LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.Heartbeat.Path != "/run/billing/heartbeat.cbor" {
		t.Errorf("expected environment expansion, got %s", cfg.Heartbeat.Path)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("SDWATCHDOG_TEST_VAR", "value")
	t.Setenv("SDWATCHDOG_TEST_EMPTY", "")

	tests := []struct {
		input string
		want  string
	}{
		{"${SDWATCHDOG_TEST_VAR}", "value"},
		{"${SDWATCHDOG_TEST_VAR:-default}", "value"},
		{"${SDWATCHDOG_TEST_EMPTY:-default}", "default"},
		{"${SDWATCHDOG_TEST_UNSET_VAR}", ""},
		{"prefix/${SDWATCHDOG_TEST_VAR}/suffix", "prefix/value/suffix"},
		{"no variables", "no variables"},
	}
	for _, test := range tests {
		if got := expandVars(test.input); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Unit = ""
	cfg.Reactor.Backend = "kqueue"
	cfg.Logging.Level = "loud"
	cfg.Logging.Format = "xml"
	cfg.Heartbeat.Path = "relative/heartbeat.cbor"
	cfg.Heartbeat.MaxAge = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{
		"unit is required",
		"reactor.backend",
		"logging.level",
		"logging.format",
		"heartbeat.path must be absolute",
		"heartbeat.max_age must be positive",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("validation error missing %q:\n%v", want, err)
		}
	}
}

func TestValidate_KnownBackends(t *testing.T) {
	for _, backend := range []string{"", "epoll", "poll"} {
		cfg := Default()
		cfg.Reactor.Backend = backend
		if err := cfg.Validate(); err != nil {
			t.Errorf("backend %q: %v", backend, err)
		}
	}
}

func TestEnsurePaths(t *testing.T) {
	cfg := Default()
	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths with heartbeat disabled: %v", err)
	}

	directory := filepath.Join(t.TempDir(), "run", "sdwatchdog")
	cfg.Heartbeat.Path = filepath.Join(directory, "heartbeat.cbor")
	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths() failed: %v", err)
	}
	info, err := os.Stat(directory)
	if err != nil {
		t.Fatalf("heartbeat directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", directory)
	}
}
