package middlewarex_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"bargain/pkg/middlewarex"
)

func TestRateLimit(t *testing.T) {
	rq := require.New(t)

	handler := middlewarex.RateLimit(rate.Limit(0.001), 2)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	testCases := []struct {
		name       string
		remoteAddr string
		status     int
	}{
		{name: "First request", remoteAddr: "10.0.0.1:5000", status: http.StatusOK},
		{name: "Burst", remoteAddr: "10.0.0.1:5001", status: http.StatusOK},
		{name: "Over the limit", remoteAddr: "10.0.0.1:5002", status: http.StatusTooManyRequests},
		{name: "Other client", remoteAddr: "10.0.0.2:5000", status: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/v1/negotiations/x/targets", http.NoBody)
			r.RemoteAddr = tc.remoteAddr

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			rq.Equal(tc.status, w.Code)
		})
	}
}
