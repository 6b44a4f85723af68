package http

import "time"

// rateLimiter caps inbound frames per connection to a fixed count per
// minute. A limit of zero disables it.
type rateLimiter struct {
	limit     int
	counter   int
	windowEnd time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{limit: limit}
}

func (r *rateLimiter) allow(now time.Time) bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	if now.After(r.windowEnd) {
		r.windowEnd = now.Add(time.Minute)
		r.counter = 0
	}
	r.counter++
	return r.counter <= r.limit
}
