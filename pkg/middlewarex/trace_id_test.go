package middlewarex_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"bargain/pkg/contextx"
	"bargain/pkg/middlewarex"
)

func TestTraceID(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name       string
		incoming   string
		propagated bool
	}{
		{name: "Generated", incoming: ""},
		{name: "Propagated", incoming: "cs8k4r3lkd3aks8fqlk0", propagated: true},
		{name: "Proxy request id", incoming: "req-7f3a_01", propagated: true},
		{name: "Header injection replaced", incoming: "abc\" onclick=\"x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var seen contextx.TraceID

			handler := middlewarex.TraceID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				traceID, err := contextx.TraceIDFromContext(r.Context())
				rq.NoError(err)
				seen = traceID
			}))

			r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tc.incoming != "" {
				r.Header.Set("X-Trace-Id", tc.incoming)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			rq.NotEmpty(seen.String())
			rq.Equal(seen.String(), w.Header().Get("X-Trace-Id"))

			if tc.propagated {
				rq.Equal(tc.incoming, seen.String())
			} else {
				rq.NotEqual(tc.incoming, seen.String())
				rq.Len(seen.String(), 20)
			}
		})
	}
}
