// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/sdwatchdog/lib/config"
	"github.com/bureau-foundation/sdwatchdog/lib/process"
	"github.com/bureau-foundation/sdwatchdog/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		process.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return process.Exit(2, nil)
	}

	switch args[0] {
	case "--version":
		version.Print("sdwatchdog")
		return nil
	case "version":
		fmt.Fprintf(stdout, "sdwatchdog %s\n", version.Full())
		return nil
	case "-h", "--help", "help":
		printUsage(stdout)
		return nil
	case "run":
		return runCommand(args[1:])
	case "check":
		return checkCommand(args[1:], stdout)
	default:
		printUsage(os.Stderr)
		return process.Exit(2, fmt.Errorf("unknown command %q", args[0]))
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: sdwatchdog <command> [flags]

Commands:
  run      announce readiness and ping the service manager watchdog
  check    exit 0 if the heartbeat file is fresh, 1 otherwise
  version  print version information

Run "sdwatchdog <command> --help" for command flags.
`)
}

// loadConfig loads path if given, else $SDWATCHDOG_CONFIG if set, else
// the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if os.Getenv(config.EnvironmentVariable) != "" {
		return config.Load()
	}
	return config.Default(), nil
}

// usageError marks flag and argument problems for exit status 2.
func usageError(err error) error {
	return process.Exit(2, err)
}

var errNoHeartbeatPath = errors.New("no heartbeat file configured (set heartbeat.path or --heartbeat-file)")
