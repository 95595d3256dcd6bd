package router

import (
	"net"
	"net/http"
	"strings"

	"github.com/shandysiswandi/mailotp/internal/pkg/config"
)

// forwardedHeaders are checked in order when proxy headers are trusted.
var forwardedHeaders = []string{"True-Client-IP", "X-Real-IP", "X-Forwarded-For"}

// middlewareIP rewrites RemoteAddr to the caller address. Forwarded headers
// are honoured only with app.server.trust_proxy_headers, since any client can
// set them and the address keys rate limiting.
func middlewareIP(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			trust := cfg != nil && cfg.GetBool("app.server.trust_proxy_headers")
			if ip := clientIP(r, trust); ip != "" {
				r.RemoteAddr = ip
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, h := range forwardedHeaders {
			v, _, _ := strings.Cut(r.Header.Get(h), ",")
			if ip := net.ParseIP(strings.TrimSpace(v)); ip != nil {
				return ip.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || net.ParseIP(host) == nil {
		return ""
	}
	return host
}
