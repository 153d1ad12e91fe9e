package jsonrpc

import (
	"net"
	"net/http"
	"strings"
)

// Version reported by health.check.
const Version = "0.2.0"

// JSON-RPC Method name constants
const (
	// Verification methods
	MethodVerify   = "sanctuary.verify"
	MethodVerifyTx = "sanctuary.verifytx"
	MethodEncodeTx = "sanctuary.encode"

	// Fixture methods
	MethodFixtureGet  = "fixture.get"
	MethodFixtureList = "fixture.list"

	// Health methods
	MethodHealthCheck = "health.check"
)

func extractClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return "unknown"
}

func joinHeader(values []string) string {
	return strings.Join(values, ", ")
}
