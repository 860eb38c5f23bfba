// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the sdwatchdog
// daemon.
//
// Configuration is loaded from a single file named by either the
// SDWATCHDOG_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There is no search path. The file is merged
// over [Default], so it only needs to name what it changes.
//
// Variable expansion is performed on path fields after loading:
// ${VAR} and ${VAR:-default} patterns are expanded from the process
// environment. systemd sets RUNTIME_DIRECTORY for units with
// RuntimeDirectory=, which makes
//
//	heartbeat:
//	  path: ${RUNTIME_DIRECTORY:-/run/sdwatchdog}/heartbeat.cbor
//
// the natural heartbeat location.
//
// Key exports:
//
//   - [Config] -- reactor, notify, logging and heartbeat sections
//   - [Default] -- a Config with defaults for every field
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- reports every problem at once
package config
