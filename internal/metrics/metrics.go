package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus instruments for the scoring pipeline
type Metrics struct {
	registry *prometheus.Registry

	ScoresSubmitted      prometheus.Counter
	ScoresApproved       prometheus.Counter
	ScoresRejected       prometheus.Counter
	RoundsFinalized      prometheus.Counter
	AchievementsUnlocked prometheus.Counter
	EventsPublished      *prometheus.CounterVec
	FinalizeDuration     prometheus.Histogram
}

// New creates a Metrics with its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ScoresSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_referee_scores_submitted_total",
			Help: "Referee score submissions (including re-submissions).",
		}),
		ScoresApproved: factory.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_referee_scores_approved_total",
			Help: "Referee score approvals.",
		}),
		ScoresRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_referee_scores_rejected_total",
			Help: "Referee score rejections.",
		}),
		RoundsFinalized: factory.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_rounds_finalized_total",
			Help: "Rounds whose final score was computed and locked.",
		}),
		AchievementsUnlocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_achievements_unlocked_total",
			Help: "Team achievement unlock records created.",
		}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_events_published_total",
			Help: "Domain events published on the bus, by event name.",
		}, []string{"event"}),
		FinalizeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scoreboard_finalize_duration_seconds",
			Help:    "Duration of round finalization including achievement evaluation.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Handler returns the HTTP handler serving this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
