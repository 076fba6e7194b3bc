package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

type clientIPKey struct{}

// TrustedProxies resolves the client address once per request and stores it
// for ClientIP. X-Forwarded-For and X-Real-IP are read only when the peer
// address lies in one of cidrs. With no cidrs the peer is always the client.
//
// X-Forwarded-For is walked from the right, skipping trusted hops, so a
// client cannot choose its own address by prepending entries.
func TrustedProxies(cidrs []string, logger *slog.Logger) func(http.Handler) http.Handler {
	prefixes := parsePrefixes(cidrs, "trusted proxy", logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := resolveClientIP(r, prefixes)
			ctx := context.WithValue(r.Context(), clientIPKey{}, ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIP returns the address resolved by TrustedProxies, or the host part
// of RemoteAddr when that middleware has not run.
func ClientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey{}).(string); ok {
		return ip
	}
	return peerHost(r.RemoteAddr)
}

func resolveClientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := peerHost(r.RemoteAddr)
	if len(trusted) == 0 || !peerAllowed(r.RemoteAddr, trusted) {
		return peer
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		var last string
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			addr = addr.Unmap()
			if !contains(trusted, addr) {
				return addr.String()
			}
			last = addr.String()
		}
		if last != "" {
			return last
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if addr, err := netip.ParseAddr(xri); err == nil {
			return addr.Unmap().String()
		}
	}
	return peer
}

func peerHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
