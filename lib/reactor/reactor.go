// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package reactor

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Backend names accepted by [New].
const (
	BackendEpoll = "epoll"
	BackendPoll  = "poll"
)

var (
	// ErrClosed is returned by operations on a reactor after Close.
	ErrClosed = errors.New("reactor closed")

	// ErrAlreadyRegistered is returned when a descriptor is registered
	// twice with the same reactor.
	ErrAlreadyRegistered = errors.New("descriptor already registered")
)

// Reactor watches file descriptors for read readiness.
type Reactor interface {
	// Register starts watching fd for read readiness. The returned
	// registration is armed.
	Register(fd int) (*Registration, error)

	// Turn waits up to timeout for at least one armed registration to
	// become readable, marks every readable registration ready, and
	// returns how many were marked. A negative timeout blocks until an
	// event arrives; zero only collects events already pending. An
	// interrupted wait returns zero events and no error.
	Turn(timeout time.Duration) (int, error)

	// Registered returns the number of live registrations.
	Registered() int

	// Backend returns the backend name ("epoll" or "poll").
	Backend() string

	// Close releases the reactor. Registrations still outstanding are
	// abandoned; their descriptors belong to their owners.
	Close() error
}

// backend is the per-implementation half of a registration: re-arming
// and removing a single descriptor.
type backend interface {
	rearm(fd int) error
	remove(fd int) error
}

// Registration is one descriptor's membership in a reactor.
type Registration struct {
	fd    int
	owner backend

	ready        atomic.Bool
	deregistered atomic.Bool
}

func newRegistration(fd int, owner backend) *Registration {
	return &Registration{fd: fd, owner: owner}
}

// Fd returns the registered descriptor.
func (r *Registration) Fd() int { return r.fd }

// Ready reports whether the reactor has observed read readiness since
// the last Rearm.
func (r *Registration) Ready() bool { return r.ready.Load() }

// Rearm clears the ready flag and resumes watching the descriptor.
// Call it after every consumption of readiness.
func (r *Registration) Rearm() error {
	if r.deregistered.Load() {
		return ErrClosed
	}
	r.ready.Store(false)
	return r.owner.rearm(r.fd)
}

// Deregister stops watching the descriptor. Safe to call more than
// once. The descriptor itself is not closed.
func (r *Registration) Deregister() error {
	if r.deregistered.Swap(true) {
		return nil
	}
	r.ready.Store(false)
	return r.owner.remove(r.fd)
}

func (r *Registration) markReady() {
	r.ready.Store(true)
}

// Constructor creates a reactor backend.
type Constructor func() (Reactor, error)

var (
	backendsMutex sync.RWMutex
	backends      = map[string]Constructor{}
)

func registerBackend(name string, constructor Constructor) {
	backendsMutex.Lock()
	defer backendsMutex.Unlock()
	backends[name] = constructor
}

// Backends returns the names of the backends available on this
// platform, sorted.
func Backends() []string {
	backendsMutex.RLock()
	defer backendsMutex.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a reactor of the named backend. An empty name selects
// [DefaultBackend].
func New(name string) (Reactor, error) {
	if name == "" {
		name = DefaultBackend
	}
	backendsMutex.RLock()
	constructor, ok := backends[name]
	backendsMutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown reactor backend %q (available: %s)",
			name, strings.Join(Backends(), ", "))
	}
	return constructor()
}

var (
	defaultOnce    sync.Once
	defaultReactor Reactor
	defaultErr     error
)

// Default returns the process-wide reactor, creating it with
// [DefaultBackend] on first use. A creation failure is sticky: every
// later call returns the same error.
func Default() (Reactor, error) {
	defaultOnce.Do(func() {
		defaultReactor, defaultErr = New(DefaultBackend)
		if defaultErr != nil {
			defaultErr = fmt.Errorf("creating default reactor: %w", defaultErr)
		}
	})
	return defaultReactor, defaultErr
}

// timeoutMillis converts a Turn timeout to the millisecond argument of
// epoll_wait and poll, rounding up so a short positive timeout never
// degrades into a non-blocking check.
func timeoutMillis(timeout time.Duration) int {
	if timeout < 0 {
		return -1
	}
	milliseconds := (timeout + time.Millisecond - 1) / time.Millisecond
	if milliseconds > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(milliseconds)
}
