// Package clientip picks the best-guess public client IP from request headers.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is returned when no header or remote address yields a usable public IP.
const Unknown = "unknown"

// headerOrder is the priority list of header sources. Earlier entries win.
// The list covers common reverse proxies plus the CloudFront/Amplify headers
// the campaign is actually deployed behind.
var headerOrder = []struct {
	name string
	list bool // comma-separated list of IPs
	port bool // value is "ip:port"
}{
	{name: "X-Forwarded-For", list: true},
	{name: "CF-Connecting-IP"},
	{name: "X-Real-IP"},
	{name: "X-Client-IP"},
	{name: "CloudFront-Viewer-Address", port: true},
	{name: "CloudFront-Forwarded-For", list: true},
}

// FromRequest extracts the client IP for r, never trusting any body-supplied
// value. Returns Unknown when every source is missing or non-public.
func FromRequest(r *http.Request) string {
	return FromHeaders(r.Header, r.RemoteAddr)
}

// FromHeaders walks the header priority list, then falls back to the remote
// address. Loopback and unspecified addresses are skipped so a proxy hop
// never masquerades as the caller.
func FromHeaders(h http.Header, remoteAddr string) string {
	for _, src := range headerOrder {
		v := h.Get(src.name)
		if v == "" {
			continue
		}

		if src.port {
			if host, _, err := net.SplitHostPort(v); err == nil {
				v = host
			} else {
				v = strings.SplitN(v, ":", 2)[0]
			}
		}

		candidates := []string{v}
		if src.list {
			candidates = strings.Split(v, ",")
		}

		for _, c := range candidates {
			if ip := strings.TrimSpace(c); isPublic(ip) {
				return ip
			}
		}
	}

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		remoteAddr = host
	}

	if isPublic(remoteAddr) {
		return remoteAddr
	}

	return Unknown
}

func isPublic(ip string) bool {
	if ip == "" || ip == Unknown {
		return false
	}

	normalized := strings.ToLower(strings.TrimSpace(ip))

	switch normalized {
	case "::1", "127.0.0.1", "localhost", "0.0.0.0", "::", "::ffff:127.0.0.1":
		return false
	}

	if strings.HasPrefix(normalized, "::ffff:127.") || strings.HasPrefix(normalized, "::ffff:0.0.0.0") {
		return false
	}

	return true
}
