// SPDX-License-Identifier: MIT

package api

import (
	"net"
	"net/http"
	"strings"
)

// trustedProxies holds the parsed proxy CIDRs. Invalid entries are skipped;
// config validation reports them.
type trustedProxies []*net.IPNet

func parseTrustedProxies(cidrs []string) trustedProxies {
	var out trustedProxies
	for _, c := range cidrs {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ipnet, err := net.ParseCIDR(c); err == nil {
			out = append(out, ipnet)
		}
	}
	return out
}

// trusts reports whether the remote peer is a configured proxy.
func (p trustedProxies) trusts(remote string) bool {
	if len(p) == 0 {
		return false
	}
	ip := net.ParseIP(hostOnly(remote))
	if ip == nil {
		return false
	}
	for _, n := range p {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP determines the originating IP address (X-Forwarded-For / X-Real-IP / RemoteAddr).
// Forwarding headers are only believed when the peer is a trusted proxy.
func (p trustedProxies) clientIP(r *http.Request) string {
	if p.trusts(r.RemoteAddr) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xr := strings.TrimSpace(r.Header.Get("X-Real-IP")); xr != "" {
			return xr
		}
	}
	return hostOnly(r.RemoteAddr)
}

func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err == nil && host != "" {
		return host
	}
	return addr
}
