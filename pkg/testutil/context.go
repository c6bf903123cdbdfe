package testutil

import (
	"context"
	"net/http"
	"time"

	"escriba/pkg/requestcontext"
)

// FixedTime is the request time used by tests that assert on timestamps.
var FixedTime = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

// Context returns a background context carrying a request id, client
// metadata and FixedTime, the state the middleware chain would set.
func Context(requestID string) context.Context {
	ctx := requestcontext.WithRequestID(context.Background(), requestID)
	ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.10", "testutil")
	return requestcontext.WithTime(ctx, FixedTime)
}

// WithRequestID adds a correlation id to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithClientIP sets the client address the rate limiter keys on.
func WithClientIP(req *http.Request, ip string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, req.UserAgent()))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), key, value))
}
