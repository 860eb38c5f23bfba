// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package notifier

import (
	"log/slog"
	"time"

	"github.com/bureau-foundation/sdwatchdog/lib/clock"
	"github.com/bureau-foundation/sdwatchdog/lib/reactor"
	"github.com/bureau-foundation/sdwatchdog/lib/sdnotify"
	"github.com/bureau-foundation/sdwatchdog/lib/timer"
)

// Status is the outcome of one Drive.
type Status int

const (
	// Pending means the notifier must be driven again later.
	Pending Status = iota

	// Complete means the notifier has reached a terminal result.
	Complete
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Phase is the notifier's lifecycle position, reported in [Stats].
type Phase int

const (
	Starting Phase = iota
	Running
	Finished
)

func (p Phase) String() string {
	switch p {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Supervisor is the process manager side of the protocol.
// [sdnotify.Environment] is the production implementation.
type Supervisor interface {
	// NotifyReady announces that startup is complete. False means no
	// supervisor accepted the announcement.
	NotifyReady() bool

	// NotifyWatchdog sends one keep-alive ping.
	NotifyWatchdog() error

	// WatchdogTimeout returns the configured watchdog timeout, if the
	// watchdog is enabled. Only queried after NotifyReady succeeds.
	WatchdogTimeout() (time.Duration, bool)
}

// Ping describes one watchdog ping attempt.
type Ping struct {
	Time time.Time

	// Err is the supervisor's failure, if any. Failed pings do not
	// stop the notifier.
	Err error
}

// Config holds the optional collaborators of a Notifier. The zero value
// is valid.
type Config struct {
	// Supervisor defaults to the environment of this process
	// (sdnotify.NewEnvironment(false)), captured when the Notifier is
	// constructed.
	Supervisor Supervisor

	// Clock stamps pings. Defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to a logger that discards everything.
	Logger *slog.Logger

	// OnPing, if set, is called synchronously from Drive after every
	// ping attempt.
	OnPing func(Ping)
}

// Stats is a snapshot of a Notifier's progress.
type Stats struct {
	Phase Phase

	// Backend is the reactor backend the timer is registered with.
	// Empty until the notifier is running.
	Backend string

	// Interval is the ping interval, half the watchdog timeout. Zero
	// until the notifier is running.
	Interval time.Duration

	// Pings counts ping attempts; Failures counts those the supervisor
	// rejected.
	Pings    uint64
	Failures uint64

	LastPing time.Time
}

// state is the tagged union of lifecycle phases. Exactly one variant
// is held at a time.
type state interface {
	phase() Phase
}

// starting holds what is needed to attach a future timer to the
// caller's reactor. A nil handle means the process default reactor.
type starting struct {
	handle reactor.Reactor
}

// running exclusively owns the watchdog timer.
type running struct {
	timer  *timer.Timer
	handle reactor.Reactor
}

// finished remembers the terminal result.
type finished struct {
	err error
}

func (*starting) phase() Phase { return Starting }
func (*running) phase() Phase  { return Running }
func (*finished) phase() Phase { return Finished }

// Notifier announces readiness and pings the supervisor watchdog.
type Notifier struct {
	state state

	supervisor Supervisor
	clock      clock.Clock
	logger     *slog.Logger
	onPing     func(Ping)

	stats Stats
}

// New returns a Notifier whose watchdog timer will be registered with
// handle.
func New(handle reactor.Reactor, config Config) *Notifier {
	return newNotifier(handle, config)
}

// NewDefault returns a Notifier whose watchdog timer will be registered
// with the process default reactor ([reactor.Default]), created when
// the timer is first needed.
func NewDefault(config Config) *Notifier {
	return newNotifier(nil, config)
}

func newNotifier(handle reactor.Reactor, config Config) *Notifier {
	if config.Supervisor == nil {
		config.Supervisor = sdnotify.NewEnvironment(false)
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Notifier{
		state:      &starting{handle: handle},
		supervisor: config.Supervisor,
		clock:      config.Clock,
		logger:     config.Logger,
		onPing:     config.OnPing,
	}
}

// Drive performs one evaluation step and never blocks.
//
// Results:
//   - (Complete, nil): readiness announced, watchdog disabled.
//   - (Complete, ErrNotRunningWithSystemd): the supervisor rejected
//     readiness. No timer was created.
//   - (Complete, *IOError): the watchdog timer could not be set up or
//     polled.
//   - (Pending, nil): the watchdog is being pinged; drive again.
//
// After a terminal result, further calls return the same result without
// contacting the supervisor.
func (n *Notifier) Drive() (Status, error) {
	switch current := n.state.(type) {
	case *starting:
		return n.start(current)
	case *running:
		if err := n.pingIfFired(current.timer); err != nil {
			return n.finish(err)
		}
		return Pending, nil
	case *finished:
		return Complete, current.err
	default:
		panic("notifier: unknown state")
	}
}

// start runs the starting phase: announce, query, create the timer,
// then move it into the running state.
func (n *Notifier) start(current *starting) (Status, error) {
	if !n.supervisor.NotifyReady() {
		n.logger.Info("supervisor did not accept readiness notification; continuing without it")
		return n.finish(ErrNotRunningWithSystemd)
	}
	n.logger.Info("announced readiness to supervisor")

	timeout, enabled := n.supervisor.WatchdogTimeout()
	if !enabled {
		n.logger.Info("supervisor watchdog is disabled")
		return n.finish(nil)
	}

	handle := current.handle
	if handle == nil {
		var err error
		if handle, err = reactor.Default(); err != nil {
			return n.finish(ioError("resolving default reactor", err))
		}
	}

	// Ping at half the timeout so a late tick never lets the full
	// timeout elapse. The interval is fixed for the notifier's life.
	interval := timeout / 2
	watchdogTimer, err := timer.Start(interval, handle)
	if err != nil {
		return n.finish(ioError("starting watchdog timer", err))
	}
	n.logger.Info("supervisor watchdog enabled",
		"timeout", timeout,
		"ping_interval", interval,
		"reactor", handle.Backend(),
	)

	n.stats.Backend = handle.Backend()
	n.stats.Interval = interval

	// The timer may already have fired if the reactor was turned by
	// someone else in the meantime.
	if err := n.pingIfFired(watchdogTimer); err != nil {
		if closeErr := watchdogTimer.Close(); closeErr != nil {
			n.logger.Warn("closing watchdog timer", "error", closeErr)
		}
		return n.finish(err)
	}

	n.state = &running{timer: watchdogTimer, handle: handle}
	return Pending, nil
}

func (n *Notifier) pingIfFired(watchdogTimer *timer.Timer) error {
	fired, err := watchdogTimer.Poll()
	if err != nil {
		return ioError("polling watchdog timer", err)
	}
	if fired {
		n.ping()
	}
	return nil
}

// ping sends one keep-alive. Its failure is recorded and swallowed.
func (n *Notifier) ping() {
	now := n.clock.Now()
	err := n.supervisor.NotifyWatchdog()

	n.stats.Pings++
	n.stats.LastPing = now
	if err != nil {
		n.stats.Failures++
		n.logger.Warn("watchdog ping failed", "error", err, "failures", n.stats.Failures)
	} else {
		n.logger.Debug("pinged supervisor watchdog", "pings", n.stats.Pings)
	}

	if n.onPing != nil {
		n.onPing(Ping{Time: now, Err: err})
	}
}

// finish enters the terminal state, releasing the timer if one is held.
func (n *Notifier) finish(err error) (Status, error) {
	if current, ok := n.state.(*running); ok {
		if closeErr := current.timer.Close(); closeErr != nil {
			n.logger.Warn("closing watchdog timer", "error", closeErr)
		}
	}
	n.state = &finished{err: err}
	return Complete, err
}

// Close stops the notifier and releases the watchdog timer. No further
// pings are sent; the supervisor will eventually treat the silence as a
// liveness failure. A closed notifier reports (Complete, nil) from
// Drive unless it had already reached another terminal result. Safe to
// call more than once.
func (n *Notifier) Close() error {
	switch current := n.state.(type) {
	case *starting:
		n.state = &finished{}
	case *running:
		n.state = &finished{}
		if err := current.timer.Close(); err != nil {
			return ioError("closing watchdog timer", err)
		}
	}
	return nil
}

// Stats returns a snapshot of the notifier's progress.
func (n *Notifier) Stats() Stats {
	stats := n.stats
	stats.Phase = n.state.phase()
	return stats
}
