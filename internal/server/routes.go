package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bargain/pkg/contextx"
	"bargain/pkg/httpx/reply"
	"bargain/pkg/logx"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/negotiations", func(r chi.Router) {
				r.Post("/", handler(s.postV1Negotiation))

				r.Route("/{id}", func(r chi.Router) {
					r.Use(withSessionID)

					r.Get("/", handler(s.getV1Negotiation))
					r.Delete("/", handler(s.deleteV1Negotiation))
					r.With(s.targetLimiter).Post("/targets", handler(s.postV1NegotiationTarget))
					r.Post("/retry", handler(s.postV1NegotiationRetry))
					r.Get("/checkout", handler(s.getV1NegotiationCheckout))
					r.Post("/booking", handler(s.postV1NegotiationBooking))
				})
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", handler(s.getV1Bookings))
				r.Get("/{id}", handler(s.getV1Booking))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}

// withSessionID moves the {id} path parameter into the context and the
// request logger.
func withSessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		ctx := contextx.WithSessionID(r.Context(), contextx.SessionID(id))
		ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldSessionID, id)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(r *http.Request) string {
	id, err := contextx.SessionIDFromContext(r.Context())
	if err != nil {
		return chi.URLParam(r, "id")
	}

	return id.String()
}
