package middlewarex

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strings"

	"bargain/pkg/logx"
)

func RequestLogging(
	sensitiveDataMasker logx.SensitiveDataMaskerInterface,
	logFieldMaxLen int,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			dump, err := httputil.DumpRequest(r, hasLoggableBody(r))

			logger(ctx).Info(
				logx.FieldHTTPRequest,
				slog.String(logx.FieldIP, clientIP(r)),
				slog.String(logx.FieldRequestBody, string(sensitiveDataMasker.Mask(logx.Truncate(dump, logFieldMaxLen)))),
				logx.Error(err),
			)

			next.ServeHTTP(w, r)
		})
	}
}

// Negotiation reads (GET, DELETE) carry no body; uploads are never dumped.
func hasLoggableBody(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return false
	}

	return !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
