// Package requesttime pins one "now" per request so every audit event emitted
// while serving it carries the same timestamp.
package requesttime

import (
	"net/http"
	"time"

	"escriba/pkg/requestcontext"
)

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// Middleware stores clock() in the request context.
func Middleware(clock Clock) func(http.Handler) http.Handler {
	if clock == nil {
		clock = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), clock().UTC())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
