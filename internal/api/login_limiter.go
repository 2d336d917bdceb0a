package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

// loginLimiter throttles password guessing by tracking failed sign-in
// attempts per client address inside a sliding window.
type loginLimiter struct {
	mu       sync.Mutex
	failures map[string][]time.Time
}

func newLoginLimiter() *loginLimiter {
	return &loginLimiter{
		failures: make(map[string][]time.Time),
	}
}

func (limiter *loginLimiter) blocked(key string, now time.Time) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	return len(limiter.pruneLocked(key, now)) >= loginAttemptLimit
}

func (limiter *loginLimiter) recordFailure(key string, now time.Time) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	limiter.failures[key] = append(limiter.pruneLocked(key, now), now)
}

func (limiter *loginLimiter) clear(key string) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	delete(limiter.failures, key)
}

func (limiter *loginLimiter) pruneLocked(key string, now time.Time) []time.Time {
	threshold := now.Add(-loginAttemptWindow)
	recent := make([]time.Time, 0, len(limiter.failures[key]))
	for _, failedAt := range limiter.failures[key] {
		if failedAt.After(threshold) {
			recent = append(recent, failedAt)
		}
	}

	if len(recent) == 0 {
		delete(limiter.failures, key)
		return recent
	}
	limiter.failures[key] = recent
	return recent
}

func clientKey(c *fiber.Ctx) string {
	key := strings.TrimSpace(c.IP())
	if key == "" {
		return "unknown"
	}
	return key
}
