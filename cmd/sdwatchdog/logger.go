// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/bureau-foundation/sdwatchdog/lib/config"
)

// newLogger builds the daemon logger on stderr. Format "auto" uses
// slog.TextHandler when stderr is a terminal and slog.JSONHandler
// otherwise (journald, pipes, tests).
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	terminal := term.IsTerminal(int(os.Stderr.Fd()))
	return slog.New(newHandler(os.Stderr, cfg.Logging.Format, level, terminal)), nil
}

func newHandler(w io.Writer, format string, level slog.Level, terminal bool) slog.Handler {
	options := &slog.HandlerOptions{Level: level}
	switch format {
	case config.FormatText:
		return slog.NewTextHandler(w, options)
	case config.FormatJSON:
		return slog.NewJSONHandler(w, options)
	}
	if terminal {
		return slog.NewTextHandler(w, options)
	}
	return slog.NewJSONHandler(w, options)
}
