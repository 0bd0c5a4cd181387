package http

import (
	"sync"
	"time"

	"masareef/internal/log"
)

// Per-IP request budget for mutating calls. Reads are never limited; the
// snapshot cache keeps them cheap.
const (
	rateLimit     = 60
	rateWindow    = time.Minute
	rateSweepTick = 5 * time.Minute
	rateIdleEvict = 10 * time.Minute
)

// rateLimiter keeps a fixed-window request counter per client IP. A
// background sweep evicts buckets that have gone idle so the map cannot grow
// with one entry per address the server has ever seen.
type rateLimiter struct {
	logger *log.Logger
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*rateBucket

	stopSweep chan struct{}
	stopOnce  sync.Once
}

type rateBucket struct {
	windowStart time.Time
	count       int
}

func newRateLimiter(logger *log.Logger) *rateLimiter {
	rl := &rateLimiter{
		logger:    logger,
		now:       time.Now,
		buckets:   make(map[string]*rateBucket),
		stopSweep: make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// allow counts one request for ip against the current window.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[ip]
	if !ok || now.Sub(b.windowStart) > rateWindow {
		rl.buckets[ip] = &rateBucket{windowStart: now, count: 1}
		return true
	}
	b.count++
	return b.count <= rateLimit
}

func (rl *rateLimiter) sweep() {
	ticker := time.NewTicker(rateSweepTick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.stopSweep:
			return
		}
	}
}

func (rl *rateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rateIdleEvict)
	before := len(rl.buckets)
	for ip, b := range rl.buckets {
		if b.windowStart.Before(cutoff) {
			delete(rl.buckets, ip)
		}
	}
	if evicted := before - len(rl.buckets); evicted > 0 {
		rl.logger.Debug("Evicted idle rate-limit buckets", "evicted", evicted)
	}
}

// stop ends the sweep goroutine. Safe to call more than once.
func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.stopSweep) })
}
