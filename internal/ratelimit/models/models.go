// Package models holds the rate limit decision shared by the bucket stores
// and the middleware.
package models

import (
	"strings"
	"time"
)

// Result is one limiter decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// ClientKey is the bucket key for a client address. Delimiters in the
// address are escaped so IPv6 segments cannot collide with the prefix.
func ClientKey(ip string) string {
	if ip == "" {
		ip = "unknown"
	}
	return "ratelimit:ip:" + strings.ReplaceAll(ip, ":", "_")
}

// RetryAfterSeconds rounds up to whole seconds, at least one.
func (r *Result) RetryAfterSeconds() int {
	secs := int((r.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
