// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/sdwatchdog/lib/reactor"
)

// EnvironmentVariable names the configuration file for [Load].
const EnvironmentVariable = "SDWATCHDOG_CONFIG"

// Log formats accepted by logging.format.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the daemon configuration.
type Config struct {
	// Unit names this daemon in logs and heartbeat records.
	Unit string `yaml:"unit"`

	Reactor   ReactorConfig   `yaml:"reactor"`
	Notify    NotifyConfig    `yaml:"notify"`
	Logging   LoggingConfig   `yaml:"logging"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
}

// ReactorConfig selects the readiness backend for the watchdog timer.
type ReactorConfig struct {
	// Backend is "epoll" or "poll". Empty selects the build default.
	Backend string `yaml:"backend"`
}

// NotifyConfig configures the supervisor protocol.
type NotifyConfig struct {
	// UnsetEnvironment removes NOTIFY_SOCKET, WATCHDOG_USEC and
	// WATCHDOG_PID from the environment after reading them, so child
	// processes do not talk to the supervisor on our behalf.
	UnsetEnvironment bool `yaml:"unset_environment"`

	// Status, if set, is sent as STATUS= after readiness is announced.
	Status string `yaml:"status"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	// Default: info
	Level string `yaml:"level"`

	// Format is auto (text on a terminal, JSON otherwise), text, or json.
	// Default: auto
	Format string `yaml:"format"`
}

// HeartbeatConfig configures the liveness state file.
type HeartbeatConfig struct {
	// Path of the heartbeat file. Empty disables it.
	Path string `yaml:"path"`

	// MaxAge is the staleness limit used by the check command.
	// Default: 1m
	MaxAge time.Duration `yaml:"max_age"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Unit: "sdwatchdog",
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatAuto,
		},
		Heartbeat: HeartbeatConfig{
			MaxAge: time.Minute,
		},
	}
}

// Load loads configuration from the file named by SDWATCHDOG_CONFIG.
// Fails if the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your sdwatchdog.yaml config file, or use --config flag",
			EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path, merged over [Default].
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) expandVariables() {
	c.Heartbeat.Path = expandVars(c.Heartbeat.Path)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} from the environment.
// An empty variable takes the default.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Unit == "" {
		errs = append(errs, errors.New("unit is required"))
	}

	if c.Reactor.Backend != "" && !slices.Contains(reactor.Backends(), c.Reactor.Backend) {
		errs = append(errs, fmt.Errorf("reactor.backend must be one of: %v", reactor.Backends()))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	formats := []string{FormatAuto, FormatText, FormatJSON}
	if !slices.Contains(formats, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format must be one of: %v", formats))
	}

	if c.Heartbeat.Path != "" && !filepath.IsAbs(c.Heartbeat.Path) {
		errs = append(errs, fmt.Errorf("heartbeat.path must be absolute: %s", c.Heartbeat.Path))
	}
	if c.Heartbeat.MaxAge <= 0 {
		errs = append(errs, errors.New("heartbeat.max_age must be positive"))
	}

	return errors.Join(errs...)
}

// LogLevel parses logging.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// EnsurePaths creates the heartbeat file's directory if needed.
func (c *Config) EnsurePaths() error {
	if c.Heartbeat.Path == "" {
		return nil
	}
	directory := filepath.Dir(c.Heartbeat.Path)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", directory, err)
	}
	return nil
}
