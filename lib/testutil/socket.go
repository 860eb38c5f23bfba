// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
)

// SocketDir creates a temporary directory suitable for Unix domain
// sockets. The directory is removed when the test completes.
func SocketDir(t *testing.T) string {
	t.Helper()
	directory, err := os.MkdirTemp("/tmp", "sdwatchdog-test-*")
	if err != nil {
		t.Fatalf("creating socket directory: %v", err)
	}
	t.Cleanup(func() {
		_ = os.RemoveAll(directory)
	})
	return directory
}

// ListenNotifySocket binds a unixgram socket in a fresh [SocketDir],
// sets NOTIFY_SOCKET to its path for the duration of the test, and
// returns a channel carrying each datagram received as a string.
//
// Uses t.Setenv, so the calling test must not be parallel.
func ListenNotifySocket(t *testing.T) <-chan string {
	t.Helper()
	path := filepath.Join(SocketDir(t), "notify.sock")
	connection, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: path, Net: "unixgram"})
	if err != nil {
		t.Fatalf("binding notify socket: %v", err)
	}
	t.Setenv("NOTIFY_SOCKET", path)
	return collectDatagrams(t, connection)
}

// ListenAbstractNotifySocket is [ListenNotifySocket] for an abstract
// namespace socket ("@name").
func ListenAbstractNotifySocket(t *testing.T) <-chan string {
	t.Helper()
	name := "@" + UniqueID("sdwatchdog-notify")
	connection, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: name, Net: "unixgram"})
	if err != nil {
		t.Fatalf("binding abstract notify socket: %v", err)
	}
	t.Setenv("NOTIFY_SOCKET", name)
	return collectDatagrams(t, connection)
}

func collectDatagrams(t *testing.T, connection *net.UnixConn) <-chan string {
	datagrams := make(chan string, 256)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(datagrams)
		buffer := make([]byte, 4096)
		for {
			count, err := connection.Read(buffer)
			if err != nil {
				if !errors.Is(err, net.ErrClosed) {
					t.Errorf("reading notify socket: %v", err)
				}
				return
			}
			select {
			case datagrams <- string(buffer[:count]):
			case <-stop:
				return
			}
		}
	}()
	t.Cleanup(func() {
		close(stop)
		connection.Close()
		<-done
	})
	return datagrams
}
