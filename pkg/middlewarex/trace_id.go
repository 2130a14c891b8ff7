package middlewarex

import (
	"net/http"
	"regexp"

	"github.com/rs/xid"

	"bargain/pkg/contextx"
)

const headerNameTraceID = "X-Trace-Id"

// Upstream proxies may send their own request IDs; anything else is replaced.
var traceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`) //nolint:gochecknoglobals

// TraceID propagates a well-formed X-Trace-Id or generates a new one. The ID
// ends up in the context, the response header and the supportId of errors.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(headerNameTraceID)

		if !traceIDPattern.MatchString(traceID) {
			traceID = xid.New().String()
		}

		ctx := contextx.WithTraceID(r.Context(), contextx.TraceID(traceID))

		w.Header().Set(headerNameTraceID, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
