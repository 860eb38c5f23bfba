// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/sdwatchdog/lib/clock"
	"github.com/bureau-foundation/sdwatchdog/lib/heartbeat"
	"github.com/bureau-foundation/sdwatchdog/lib/process"
)

func checkCommand(args []string, stdout io.Writer) error {
	return check(args, stdout, clock.Real())
}

func check(args []string, stdout io.Writer, c clock.Clock) error {
	var configPath, heartbeatPath string
	var maxAge time.Duration
	var verbose bool

	flagSet := pflag.NewFlagSet("sdwatchdog check", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to sdwatchdog.yaml (default: $SDWATCHDOG_CONFIG)")
	flagSet.StringVar(&heartbeatPath, "heartbeat-file", "", "heartbeat file to inspect (default: heartbeat.path)")
	flagSet.DurationVar(&maxAge, "max-age", 0, "staleness limit (default: heartbeat.max_age)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "also print the raw record in CBOR diagnostic notation")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return usageError(err)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return usageError(fmt.Errorf("loading config: %w", err))
	}
	if flagSet.Changed("heartbeat-file") {
		cfg.Heartbeat.Path = heartbeatPath
	}
	if flagSet.Changed("max-age") {
		cfg.Heartbeat.MaxAge = maxAge
	}
	if cfg.Heartbeat.Path == "" {
		return usageError(errNoHeartbeatPath)
	}
	if cfg.Heartbeat.MaxAge <= 0 {
		return usageError(fmt.Errorf("--max-age must be positive, got %v", cfg.Heartbeat.MaxAge))
	}

	record, fresh, err := heartbeat.Check(cfg.Heartbeat.Path, cfg.Heartbeat.MaxAge, c)
	if err != nil {
		return process.Exit(1, err)
	}
	if record.LastPing.IsZero() {
		return process.Exit(1, fmt.Errorf("no heartbeat recorded at %s", cfg.Heartbeat.Path))
	}

	age := clock.Since(c, record.LastPing).Round(time.Millisecond)
	if !fresh {
		return process.Exit(1, fmt.Errorf("%s: last ping %v ago exceeds %v", record.Unit, age, cfg.Heartbeat.MaxAge))
	}

	fmt.Fprintf(stdout, "%s: alive (pid %d, %d pings, %d failed, last %v ago)\n",
		record.Unit, record.PID, record.Pings, record.Failures, age)
	if verbose {
		diagnostic, err := heartbeat.Diagnose(cfg.Heartbeat.Path)
		if err != nil {
			return process.Exit(1, err)
		}
		fmt.Fprintln(stdout, diagnostic)
	}
	return nil
}
