// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	clock.Advance(5 * time.Second)
	want := epoch.Add(5 * time.Second)
	if got := clock.Now(); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockAdvanceIgnoresNegative(t *testing.T) {
	clock := Fake(epoch)
	clock.Advance(-time.Hour)
	clock.Advance(0)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
}

func TestFakeClockSet(t *testing.T) {
	clock := Fake(epoch)
	earlier := epoch.Add(-time.Minute)
	clock.Set(earlier)
	if got := clock.Now(); !got.Equal(earlier) {
		t.Fatalf("Now() after Set = %v, want %v", got, earlier)
	}
}

func TestSince(t *testing.T) {
	clock := Fake(epoch)
	clock.Advance(90 * time.Second)
	if got := Since(clock, epoch); got != 90*time.Second {
		t.Fatalf("Since = %v, want 90s", got)
	}
}

func TestFakeClockConcurrentAdvance(t *testing.T) {
	clock := Fake(epoch)
	var waitGroup sync.WaitGroup
	for range 50 {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			clock.Advance(time.Millisecond)
			_ = clock.Now()
		}()
	}
	waitGroup.Wait()
	if got := Since(clock, epoch); got != 50*time.Millisecond {
		t.Fatalf("Since after concurrent advances = %v, want 50ms", got)
	}
}

func TestRealClockMoves(t *testing.T) {
	clock := Real()
	first := clock.Now()
	if first.IsZero() {
		t.Fatal("Real().Now() returned the zero time")
	}
	if Since(clock, first) < 0 {
		t.Fatal("real clock ran backwards")
	}
}
