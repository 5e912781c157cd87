package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RecordsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "squad_match_records_submitted_total",
			Help: "The total number of match records submitted, by match type.",
		}, []string{"match_type"}),
		RecordsEdited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squad_match_records_edited_total",
			Help: "The total number of match records edited by admins.",
		}),
		RecordsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squad_match_records_deleted_total",
			Help: "The total number of match records deleted by admins.",
		}),
		LeaderboardDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "squad_leaderboard_build_duration_seconds",
			Help:    "The duration of loading records and ranking a leaderboard.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		FailedLogins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squad_failed_logins_total",
			Help: "The total number of rejected login attempts.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squad_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squad_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "squad_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RecordsSubmitted,
		s.RecordsEdited,
		s.RecordsDeleted,
		s.LeaderboardDuration,
		s.FailedLogins,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRecordsSubmitted(matchType string) {
	if matchType == "" {
		matchType = "none"
	}
	s.RecordsSubmitted.WithLabelValues(matchType).Inc()
}

func (s *Service) IncRecordsEdited() {
	s.RecordsEdited.Inc()
}

func (s *Service) IncRecordsDeleted() {
	s.RecordsDeleted.Inc()
}

func (s *Service) ObserveLeaderboardDuration(duration float64) {
	s.LeaderboardDuration.Observe(duration)
}

func (s *Service) IncFailedLogins() {
	s.FailedLogins.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
