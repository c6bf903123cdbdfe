package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"escriba/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		expected   string
	}{
		{name: "ipv4 remote addr", remoteAddr: "192.0.2.1:5555", expected: "192.0.2.1"},
		{name: "ipv6 remote addr", remoteAddr: "[::1]:5555", expected: "::1"},
		{name: "forwarded header ignored without trust", remoteAddr: "192.0.2.1:5555", headers: map[string]string{"X-Forwarded-For": "198.51.100.7"}, expected: "192.0.2.1"},
		{name: "first forwarded hop when trusted", remoteAddr: "192.0.2.1:5555", headers: map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.1"}, trustProxy: true, expected: "198.51.100.7"},
		{name: "real ip when trusted", remoteAddr: "192.0.2.1:5555", headers: map[string]string{"X-Real-IP": "198.51.100.8"}, trustProxy: true, expected: "198.51.100.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, ClientIPFromRequest(req, tt.trustProxy))
		})
	}
}

func TestClientMetadataMiddleware(t *testing.T) {
	var ip, ua string
	h := ClientMetadata(false)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ip = requestcontext.ClientIP(r.Context())
		ua = requestcontext.UserAgent(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.9:1234"
	req.Header.Set("User-Agent", "curl/8")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.9", ip)
	assert.Equal(t, "curl/8", ua)
}
