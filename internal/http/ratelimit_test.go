package http

import (
	"testing"
	"time"

	"masareef/internal/log"
)

func newTestRateLimiter(t *testing.T) (*rateLimiter, *time.Time) {
	t.Helper()
	rl := newRateLimiter(log.New(log.DefaultConfig()))
	t.Cleanup(rl.stop)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiterCapsWindow(t *testing.T) {
	rl, _ := newTestRateLimiter(t)

	for i := 0; i < rateLimit; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d rejected inside the budget", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("request beyond the budget allowed")
	}
	// other clients keep their own budget
	if !rl.allow("10.0.0.2") {
		t.Fatal("separate client rejected")
	}
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl, now := newTestRateLimiter(t)

	for i := 0; i < rateLimit+5; i++ {
		rl.allow("10.0.0.1")
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("budget should be exhausted")
	}

	*now = now.Add(rateWindow + time.Second)
	if !rl.allow("10.0.0.1") {
		t.Fatal("new window should start fresh")
	}
}

func TestRateLimiterEvictsIdleBuckets(t *testing.T) {
	rl, now := newTestRateLimiter(t)

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")

	*now = now.Add(rateIdleEvict + time.Minute)
	rl.allow("10.0.0.3")
	rl.evictIdle()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.buckets) != 1 {
		t.Fatalf("expected only the active bucket to survive, got %d", len(rl.buckets))
	}
	if _, ok := rl.buckets["10.0.0.3"]; !ok {
		t.Fatal("active bucket evicted")
	}
}
