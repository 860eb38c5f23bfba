// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// sdwatchdog is a minimal supervised daemon. Under systemd with
// Type=notify and WatchdogSec= set, it announces readiness and then
// pings the service manager's watchdog at half the configured timeout
// until it receives SIGINT or SIGTERM.
//
// Two subcommands:
//
//	sdwatchdog run [--config F] [--backend B] [--heartbeat-file P]
//	sdwatchdog check [--config F] [--heartbeat-file P] [--max-age D] [-v]
//
// run keeps going when no supervisor is present, so the same binary
// works from a terminal. Each ping refreshes an optional CBOR heartbeat
// file, which check inspects: exit 0 when the last ping is recent
// enough, 1 when it is stale or missing, 2 on usage errors. A clean
// shutdown removes the heartbeat file.
//
// A unit file for run:
//
//	[Service]
//	Type=notify
//	WatchdogSec=10
//	RuntimeDirectory=sdwatchdog
//	Environment=SDWATCHDOG_CONFIG=/etc/sdwatchdog.yaml
//	ExecStart=/usr/bin/sdwatchdog run
package main
