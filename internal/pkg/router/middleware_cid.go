package router

import (
	"net/http"

	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/uid"
)

const (
	// HeaderCorrelationID carries the correlation ID in and out of the service.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is read when a proxy sets it instead.
	HeaderRequestID = "X-Request-ID"

	maxCIDLen = 64
)

// acceptCID returns v when it is usable as a log and broker header value:
// 1 to 64 characters of [A-Za-z0-9._:-]. Anything else is dropped.
func acceptCID(v string) string {
	if v == "" || len(v) > maxCIDLen {
		return ""
	}
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return ""
		}
	}
	return v
}

// middlewareCorrelationID puts a correlation ID on the context and the
// response. A client supplied ID is kept so a browser retry of send-code can
// be matched with the mail it produced; a missing or unusable one is generated.
func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := acceptCID(r.Header.Get(HeaderCorrelationID))
			if cid == "" {
				cid = acceptCID(r.Header.Get(HeaderRequestID))
			}
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
