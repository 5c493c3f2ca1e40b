package http

import "time"

// rateLimiter caps inbound messages per connection with a fixed one-minute
// window. It is used from a single read loop and holds no locks.
type rateLimiter struct {
	limit       int
	count       int
	windowStart time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{limit: limit}
}

func (r *rateLimiter) allow(now time.Time) bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	if now.Sub(r.windowStart) >= time.Minute {
		r.windowStart = now
		r.count = 0
	}
	r.count++
	return r.count <= r.limit
}
