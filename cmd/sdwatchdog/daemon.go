// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/sdwatchdog/lib/config"
	"github.com/bureau-foundation/sdwatchdog/lib/heartbeat"
	"github.com/bureau-foundation/sdwatchdog/lib/notifier"
	"github.com/bureau-foundation/sdwatchdog/lib/reactor"
	"github.com/bureau-foundation/sdwatchdog/lib/sdnotify"
)

func runCommand(args []string) error {
	var configPath, backend, heartbeatPath string

	flagSet := pflag.NewFlagSet("sdwatchdog run", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to sdwatchdog.yaml (default: $SDWATCHDOG_CONFIG)")
	flagSet.StringVar(&backend, "backend", "", fmt.Sprintf("reactor backend %v (default: %s)", reactor.Backends(), reactor.DefaultBackend))
	flagSet.StringVar(&heartbeatPath, "heartbeat-file", "", "write a heartbeat record here after every ping")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return usageError(err)
	}
	if flagSet.NArg() > 0 {
		return usageError(fmt.Errorf("unexpected arguments: %v", flagSet.Args()))
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagSet.Changed("backend") {
		cfg.Reactor.Backend = backend
	}
	if flagSet.Changed("heartbeat-file") {
		cfg.Heartbeat.Path = heartbeatPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger = logger.With("unit", cfg.Unit)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

// serve runs the daemon until ctx is done. It returns nil on a clean
// shutdown, including when no supervisor is present, and an error when
// the watchdog timer fails.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	handle, err := reactor.New(cfg.Reactor.Backend)
	if err != nil {
		return fmt.Errorf("creating reactor: %w", err)
	}
	defer handle.Close()

	supervisor := &supervisor{
		Environment: sdnotify.NewEnvironment(cfg.Notify.UnsetEnvironment),
		status:      cfg.Notify.Status,
	}

	var watchdog *notifier.Notifier
	watchdog = notifier.New(handle, notifier.Config{
		Supervisor: supervisor,
		Logger:     logger,
		OnPing: func(ping notifier.Ping) {
			if cfg.Heartbeat.Path == "" {
				return
			}
			stats := watchdog.Stats()
			record := heartbeat.Record{
				Unit:     cfg.Unit,
				PID:      os.Getpid(),
				Backend:  stats.Backend,
				Interval: stats.Interval,
				Pings:    stats.Pings,
				Failures: stats.Failures,
				LastPing: ping.Time,
			}
			if err := heartbeat.Write(cfg.Heartbeat.Path, record); err != nil {
				logger.Warn("writing heartbeat file", "path", cfg.Heartbeat.Path, "error", err)
			}
		},
	})

	err = watchdog.Run(ctx)
	switch {
	case err == nil:
		<-ctx.Done()
	case notifier.IsNotRunningWithSystemd(err):
		logger.Info("running without a service manager")
		<-ctx.Done()
	case errors.Is(err, ctx.Err()):
	default:
		return fmt.Errorf("watchdog: %w", err)
	}

	logger.Info("shutting down", "pings", watchdog.Stats().Pings)
	if supervisor.ready {
		if _, err := supervisor.Notify(sdnotify.Stopping); err != nil {
			logger.Warn("sending STOPPING=1", "error", err)
		}
	}
	supervisor.Release()

	// A clean stop leaves no heartbeat, so check reports the daemon
	// as gone rather than stale.
	if cfg.Heartbeat.Path != "" {
		if err := heartbeat.Clear(cfg.Heartbeat.Path); err != nil {
			logger.Warn("removing heartbeat file", "error", err)
		}
	}
	return nil
}

// supervisor sends the configured status text alongside READY=1 and
// remembers whether readiness was accepted.
type supervisor struct {
	*sdnotify.Environment
	status string
	ready  bool
}

func (s *supervisor) NotifyReady() bool {
	states := []sdnotify.State{sdnotify.Ready}
	if s.status != "" {
		states = append(states, sdnotify.Status(s.status))
	}
	sent, err := s.Notify(states...)
	s.ready = err == nil && sent
	return s.ready
}
