package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// TrustedRealIP rewrites r.RemoteAddr from X-Real-IP or X-Forwarded-For,
// but only when the connection comes from one of trustedCIDRs. Requests
// from anywhere else keep their RemoteAddr, so clients cannot spoof their
// address to dodge the per-IP rate limit.
func TrustedRealIP(trustedCIDRs []string) func(http.Handler) http.Handler {
	trusted := parseTrustedProxies(trustedCIDRs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isTrusted(extractIP(r.RemoteAddr), trusted) {
				if ip := forwardedIP(r); ip != nil {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the client address of r without the port.
func ClientIP(r *http.Request) string {
	if ip := extractIP(r.RemoteAddr); ip != nil {
		return ip.String()
	}
	return r.RemoteAddr
}

// parseTrustedProxies accepts CIDRs and bare IPs. Invalid entries are
// logged and skipped.
func parseTrustedProxies(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if _, network, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, network)
			continue
		}

		ip := net.ParseIP(entry)
		if ip == nil {
			slog.Warn("realip: invalid trusted proxy, skipping", "entry", entry)
			continue
		}
		mask := net.CIDRMask(128, 128)
		if ip.To4() != nil {
			mask = net.CIDRMask(32, 32)
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: mask})
	}
	return nets
}

// forwardedIP reads X-Real-IP, then the first X-Forwarded-For hop.
// Values that are not IPs are ignored.
func forwardedIP(r *http.Request) net.IP {
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return net.ParseIP(strings.TrimSpace(rip))
	}
	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return nil
	}
	first, _, _ := strings.Cut(xff, ",")
	return net.ParseIP(strings.TrimSpace(first))
}

// extractIP parses an IP address from a host:port string or plain IP.
func extractIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}

func isTrusted(ip net.IP, trusted []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, network := range trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
