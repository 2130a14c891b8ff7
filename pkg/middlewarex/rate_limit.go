package middlewarex

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"bargain/pkg/errcodes"
	"bargain/pkg/httpx/reply"
	"bargain/pkg/logx"
)

const (
	limiterIdleTTL         = 10 * time.Minute
	limiterCleanupInterval = time.Minute
)

type rateLimitError struct{}

func (rateLimitError) Error() string {
	return "rate limit exceeded, try again later"
}

func (rateLimitError) ErrorCode() failure.ErrorCode {
	return errcodes.TooManyRequests
}

// RateLimit allows every client IP limit requests per second with the given
// burst. Limiters of idle clients are dropped.
func RateLimit(limit rate.Limit, burst int) func(next http.Handler) http.Handler {
	limiters := cache.New(limiterIdleTTL, limiterCleanupInterval)

	limiterFor := func(ip string) *rate.Limiter {
		if item, ok := limiters.Get(ip); ok {
			if limiter, ok := item.(*rate.Limiter); ok {
				return limiter
			}
		}

		limiter := rate.NewLimiter(limit, burst)
		if err := limiters.Add(ip, limiter, cache.DefaultExpiration); err != nil {
			// Another request created it first.
			if item, ok := limiters.Get(ip); ok {
				if existing, ok := item.(*rate.Limiter); ok {
					return existing
				}
			}
		}

		return limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			if !limiterFor(ip).Allow() {
				logger(r.Context()).Warn("rate limit exceeded", slog.String(logx.FieldIP, ip))
				reply.Error(r.Context(), w, rateLimitError{})

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
