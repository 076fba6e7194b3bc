package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP_WithoutResolverUsesPeer(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"remote addr without port", nil, "192.0.2.1", "192.0.2.1"},
		{"ipv6 remote", nil, "[::1]:8080", "::1"},
		{"forwarded for ignored", map[string]string{"X-Forwarded-For": "203.0.113.5"}, "10.0.0.2:80", "10.0.0.2"},
		{"real ip ignored", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.2:80", "10.0.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}

func TestTrustedProxies(t *testing.T) {
	proxies := []string{"10.0.0.0/8"}

	tests := []struct {
		name    string
		trusted []string
		headers map[string]string
		remote  string
		want    string
	}{
		{"no trusted proxies ignores forwarded for", nil, map[string]string{"X-Forwarded-For": "203.0.113.5"}, "10.0.0.2:80", "10.0.0.2"},
		{"untrusted peer ignores forwarded for", proxies, map[string]string{"X-Forwarded-For": "203.0.113.5"}, "192.0.2.9:80", "192.0.2.9"},
		{"untrusted peer ignores real ip", proxies, map[string]string{"X-Real-IP": "198.51.100.7"}, "192.0.2.9:80", "192.0.2.9"},
		{"trusted peer single hop", proxies, map[string]string{"X-Forwarded-For": "203.0.113.5"}, "10.0.0.2:80", "203.0.113.5"},
		{"trusted hops are skipped", proxies, map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.2:80", "203.0.113.5"},
		{"spoofed leftmost entry ignored", proxies, map[string]string{"X-Forwarded-For": "1.2.3.4, 203.0.113.5"}, "10.0.0.2:80", "203.0.113.5"},
		{"all hops trusted", proxies, map[string]string{"X-Forwarded-For": "10.1.1.1, 10.0.0.1"}, "10.0.0.2:80", "10.1.1.1"},
		{"garbage forwarded for", proxies, map[string]string{"X-Forwarded-For": "nope"}, "10.0.0.2:80", "10.0.0.2"},
		{"trusted peer real ip", proxies, map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.2:80", "198.51.100.7"},
		{"mapped ipv4 peer", proxies, map[string]string{"X-Forwarded-For": "203.0.113.5"}, "[::ffff:10.0.0.2]:80", "203.0.113.5"},
		{"invalid cidr is skipped", []string{"bogus"}, map[string]string{"X-Forwarded-For": "203.0.113.5"}, "10.0.0.2:80", "10.0.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := TrustedProxies(tt.trusted, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = ClientIP(r)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}
