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
	registerBackend(BackendEpoll, newEpoll)
}

// epollReadInterest watches for readability and disables the
// descriptor after the first event, so every delivery needs an
// EPOLL_CTL_MOD to re-arm.
const epollReadInterest = unix.EPOLLIN | unix.EPOLLONESHOT

// maxEpollEvents bounds the events collected per Turn. Remaining
// events stay queued in the kernel for the next Turn.
const maxEpollEvents = 32

type epollReactor struct {
	mu            sync.Mutex
	epollFd       int
	registrations map[int]*Registration
	closed        bool
}

func newEpoll() (Reactor, error) {
	epollFd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll_create1: %w", err)
	}
	return &epollReactor{
		epollFd:       epollFd,
		registrations: make(map[int]*Registration),
	}, nil
}

func (e *epollReactor) Backend() string { return BackendEpoll }

func (e *epollReactor) Register(fd int) (*Registration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}
	if _, exists := e.registrations[fd]; exists {
		return nil, fmt.Errorf("descriptor %d: %w", fd, ErrAlreadyRegistered)
	}

	event := unix.EpollEvent{Events: epollReadInterest, Fd: int32(fd)}
	if err := unix.EpollCtl(e.epollFd, unix.EPOLL_CTL_ADD, fd, &event); err != nil {
		return nil, fmt.Errorf("epoll_ctl add descriptor %d: %w", fd, err)
	}

	registration := newRegistration(fd, e)
	e.registrations[fd] = registration
	return registration, nil
}

func (e *epollReactor) rearm(fd int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	event := unix.EpollEvent{Events: epollReadInterest, Fd: int32(fd)}
	if err := unix.EpollCtl(e.epollFd, unix.EPOLL_CTL_MOD, fd, &event); err != nil {
		return fmt.Errorf("epoll_ctl mod descriptor %d: %w", fd, err)
	}
	return nil
}

func (e *epollReactor) remove(fd int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.registrations, fd)
	if e.closed {
		return nil
	}
	// Kernels before 2.6.9 reject a nil event for EPOLL_CTL_DEL.
	if err := unix.EpollCtl(e.epollFd, unix.EPOLL_CTL_DEL, fd, &unix.EpollEvent{}); err != nil {
		return fmt.Errorf("epoll_ctl del descriptor %d: %w", fd, err)
	}
	return nil
}

func (e *epollReactor) Turn(timeout time.Duration) (int, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return 0, ErrClosed
	}
	epollFd := e.epollFd
	e.mu.Unlock()

	events := make([]unix.EpollEvent, maxEpollEvents)
	count, err := unix.EpollWait(epollFd, events, timeoutMillis(timeout))
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll_wait: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	marked := 0
	for _, event := range events[:count] {
		registration, ok := e.registrations[int(event.Fd)]
		if !ok {
			continue
		}
		registration.markReady()
		marked++
	}
	return marked, nil
}

func (e *epollReactor) Registered() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.registrations)
}

func (e *epollReactor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	if err := unix.Close(e.epollFd); err != nil {
		return fmt.Errorf("closing epoll descriptor: %w", err)
	}
	return nil
}
