package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"bargain/internal/domain"
	"bargain/internal/domain/entity"
)

const namespace = "bargain"

// Negotiation records settlement, expiry and commit outcomes.
type Negotiation struct {
	settled    *prometheus.CounterVec
	grandTotal prometheus.Histogram
	expired    prometheus.Counter
	commits    *prometheus.CounterVec
	drift      prometheus.Histogram
}

func NewNegotiation(reg prometheus.Registerer) *Negotiation {
	factory := promauto.With(reg)

	return &Negotiation{
		settled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_settled_total",
			Help:      "Settled offers by outcome.",
		}, []string{"outcome"}),
		grandTotal: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "offer_grand_total",
			Help:      "Grand total of settled offers in the canonical currency.",
			Buckets:   prometheus.ExponentialBuckets(1000, 2, 12), //nolint:mnd
		}),
		expired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_expired_total",
			Help:      "Offers that ran out before booking.",
		}),
		commits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_commits_total",
			Help:      "Booking commit attempts by result code.",
		}, []string{"result"}),
		drift: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "booking_price_drift",
			Help:      "Absolute difference between checkout and agreed totals on refused commits.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8), //nolint:mnd
		}),
	}
}

func (n *Negotiation) Settled(_ context.Context, offer entity.SettledOffer) {
	n.settled.WithLabelValues(offer.Outcome.String()).Inc()
	n.grandTotal.Observe(offer.GrandTotal.InexactFloat64())
}

func (n *Negotiation) Expired(context.Context, string) {
	n.expired.Inc()
}

func (n *Negotiation) Commit(_ context.Context, _ string, result entity.CommitResult, err error) {
	switch {
	case err == nil:
		n.commits.WithLabelValues("committed").Inc()
	default:
		code, ok := domain.GetCode(err)
		if !ok {
			code = "unknown"
		}

		n.commits.WithLabelValues(string(code)).Inc()
	}

	if !result.Committed && result.Drift.IsPositive() {
		n.drift.Observe(result.Drift.InexactFloat64())
	}
}
