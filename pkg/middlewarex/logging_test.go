package middlewarex_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"bargain/pkg/contextx"
	"bargain/pkg/logx"
	"bargain/pkg/middlewarex"
)

func TestRequestResponseLogging(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		method string
		body   string
		status int
		level  string
	}{
		{name: "Target accepted", method: http.MethodPost, body: `{"targetPrice":"14000"}`, status: http.StatusOK, level: "INFO"},
		{name: "Price drift", method: http.MethodPost, body: `{"computedTotal":"27500"}`, status: http.StatusConflict, level: "INFO"},
		{name: "Rate limited", method: http.MethodPost, body: `{"targetPrice":"1"}`, status: http.StatusTooManyRequests, level: "WARN"},
		{name: "State read", method: http.MethodGet, status: http.StatusOK, level: "INFO"},
		{name: "Server fault", method: http.MethodGet, status: http.StatusBadGateway, level: "ERROR"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var buf bytes.Buffer

			handler := middlewarex.RequestLogging(logx.NewSensitiveDataMasker(), 1024)(
				middlewarex.ResponseLogging(logx.NewSensitiveDataMasker(), 1024)(
					http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
						w.WriteHeader(tc.status)
						w.Write([]byte(`{"phase":"settled"}`))
					}),
				),
			)

			r := httptest.NewRequest(tc.method, "/v1/negotiations/01J/targets", strings.NewReader(tc.body))
			r = r.WithContext(contextx.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil))))

			handler.ServeHTTP(httptest.NewRecorder(), r)

			lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
			rq.Len(lines, 2)

			var request, response map[string]any

			rq.NoError(jsoniter.Unmarshal(lines[0], &request))
			rq.NoError(jsoniter.Unmarshal(lines[1], &response))

			rq.Equal(logx.FieldHTTPRequest, request["msg"])
			dump := request[logx.FieldRequestBody].(string)
			rq.Contains(dump, tc.method+" /v1/negotiations/01J/targets")

			if tc.body != "" {
				rq.Contains(dump, tc.body)
			} else {
				rq.NotContains(dump, "{")
			}

			rq.Equal(tc.level, response["level"])
			rq.InDelta(float64(tc.status), response[logx.FieldResponseStatus], 0)
			rq.Equal(`{"phase":"settled"}`, response[logx.FieldResponseBody])
		})
	}
}

func TestRecovery(t *testing.T) {
	rq := require.New(t)

	handler := middlewarex.TraceID(middlewarex.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("snapshot missing")
	})))

	r := httptest.NewRequest(http.MethodPost, "/v1/negotiations/01J/booking", http.NoBody)
	r.Header.Set("X-Trace-Id", "cs8k4r3lkd3aks8fqlk0")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	rq.Equal(http.StatusInternalServerError, w.Code)

	var body struct {
		Code      string `json:"code"`
		SupportID string `json:"supportId"`
	}

	rq.NoError(jsoniter.Unmarshal(w.Body.Bytes(), &body))
	rq.NotEmpty(body.Code)
	rq.Equal("cs8k4r3lkd3aks8fqlk0", body.SupportID)
}
