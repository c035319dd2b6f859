package auth

import (
	"sync"
	"time"
)

// RateLimiter is a token bucket guarding the credential endpoints against
// brute forcing. One bucket covers the whole service; per-IP limiting
// belongs to the infrastructure in front of it.
type RateLimiter struct {
	mu       sync.Mutex
	rate     float64 // tokens per second
	capacity int64
	tokens   float64
	last     time.Time
}

// NewRateLimiter allows rate operations per interval.
func NewRateLimiter(rate int64, interval time.Duration) *RateLimiter {
	if rate <= 0 || interval <= 0 {
		panic("rate and interval must be positive")
	}

	return &RateLimiter{
		rate:     float64(rate) / interval.Seconds(),
		capacity: rate,
		tokens:   float64(rate),
		last:     time.Now(),
	}
}

// Allow reports whether one more operation fits under the limit.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.last).Seconds()
	rl.last = now

	rl.tokens = min(float64(rl.capacity), rl.tokens+elapsed*rl.rate)

	if rl.tokens < 1.0 {
		return false
	}

	rl.tokens--
	return true
}

// Reset refills the bucket to capacity.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.tokens = float64(rl.capacity)
	rl.last = time.Now()
}
