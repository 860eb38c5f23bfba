// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package reactor

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

func init() {
	registerBackend(BackendPoll, newPoll)
}

// pollReadyEvents are the revents bits that count as read readiness.
// Error and hangup conditions are reported as ready so the owner's
// next read surfaces the failure.
const pollReadyEvents = unix.POLLIN | unix.POLLERR | unix.POLLHUP | unix.POLLNVAL

type pollEntry struct {
	registration *Registration
	armed        bool
}

type pollReactor struct {
	mu      sync.Mutex
	entries map[int]*pollEntry
	closed  bool
}

func newPoll() (Reactor, error) {
	return &pollReactor{entries: make(map[int]*pollEntry)}, nil
}

func (p *pollReactor) Backend() string { return BackendPoll }

func (p *pollReactor) Register(fd int) (*Registration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if _, exists := p.entries[fd]; exists {
		return nil, fmt.Errorf("descriptor %d: %w", fd, ErrAlreadyRegistered)
	}

	if err := checkPollable(fd); err != nil {
		return nil, fmt.Errorf("register descriptor %d: %w", fd, err)
	}

	registration := newRegistration(fd, p)
	p.entries[fd] = &pollEntry{registration: registration, armed: true}
	return registration, nil
}

func (p *pollReactor) rearm(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	entry, ok := p.entries[fd]
	if !ok {
		return fmt.Errorf("rearm descriptor %d: not registered", fd)
	}
	entry.armed = true
	return nil
}

func (p *pollReactor) remove(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, fd)
	return nil
}

func (p *pollReactor) Turn(timeout time.Duration) (int, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return 0, ErrClosed
	}
	descriptors := make([]unix.PollFd, 0, len(p.entries))
	for fd, entry := range p.entries {
		if entry.armed {
			descriptors = append(descriptors, unix.PollFd{Fd: int32(fd), Events: unix.POLLIN})
		}
	}
	p.mu.Unlock()

	// With nothing armed, poll(2) still sleeps for the timeout, which
	// keeps the caller's loop from spinning.
	count, err := unix.Poll(descriptors, timeoutMillis(timeout))
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("poll: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	marked := 0
	for _, descriptor := range descriptors {
		if descriptor.Revents&pollReadyEvents == 0 {
			continue
		}
		entry, ok := p.entries[int(descriptor.Fd)]
		if !ok || !entry.armed {
			continue
		}
		entry.armed = false
		entry.registration.markReady()
		marked++
	}
	return marked, nil
}

func (p *pollReactor) Registered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

func (p *pollReactor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// checkPollable rejects what epoll_ctl(2) rejects: closed descriptors
// with EBADF, regular files and directories with EPERM.
func checkPollable(fd int) error {
	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return err
	}
	switch stat.Mode & unix.S_IFMT {
	case unix.S_IFREG, unix.S_IFDIR:
		return unix.EPERM
	}
	return nil
}
