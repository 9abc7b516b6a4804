package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the voting server.
type Metrics struct {
	VotesAccepted     prometheus.Counter
	VotesDuplicate    prometheus.Counter
	VotesRevoked      prometheus.Counter
	Resets            prometheus.Counter
	BroadcastSessions prometheus.Gauge
	BroadcastEvents   *prometheus.CounterVec
	BroadcastFailures prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		VotesAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vibevote_votes_total",
			Help: "Total number of accepted votes",
		}),
		VotesDuplicate: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vibevote_duplicate_votes_total",
			Help: "Total number of votes rejected as duplicates",
		}),
		VotesRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vibevote_votes_revoked_total",
			Help: "Total number of revoked votes",
		}),
		Resets: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vibevote_resets_total",
			Help: "Total number of administrative tally resets",
		}),
		BroadcastSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vibevote_broadcast_sessions",
			Help: "Current number of connected broadcast sessions",
		}),
		BroadcastEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vibevote_broadcast_events_total",
			Help: "Total number of events fanned out, by event kind",
		}, []string{"event"}),
		BroadcastFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vibevote_broadcast_send_failures_total",
			Help: "Total number of per-session delivery failures",
		}),
	}
}
