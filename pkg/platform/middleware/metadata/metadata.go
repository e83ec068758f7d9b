// Package metadata records who is on the other end of a request.
package metadata

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"ubersystem/pkg/requestcontext"
)

// ClientMetadata stores the client IP and User-Agent on the request context.
// Apply it early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIPFromRequest prefers proxy headers over the socket address.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Client is a parsed User-Agent, for logs.
type Client struct {
	Browser string
	OS      string
	Bot     bool
}

// ParseUserAgent returns a zero Client for an empty header.
func ParseUserAgent(header string) Client {
	if header == "" {
		return Client{}
	}
	ua := useragent.New(header)
	name, version := ua.Browser()
	browser := name
	if version != "" {
		browser += " " + version
	}
	return Client{Browser: browser, OS: ua.OS(), Bot: ua.Bot()}
}
