package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/squad-roster/internal/activity"
	"github.com/mauv0809/squad-roster/internal/announcement"
	"github.com/mauv0809/squad-roster/internal/attendance"
	"github.com/mauv0809/squad-roster/internal/auth"
	"github.com/mauv0809/squad-roster/internal/config"
	"github.com/mauv0809/squad-roster/internal/leaderboard"
	"github.com/mauv0809/squad-roster/internal/metrics"
	"github.com/mauv0809/squad-roster/internal/notifier"
	"github.com/mauv0809/squad-roster/internal/pubsub"
	"github.com/mauv0809/squad-roster/internal/recorder"
	"github.com/mauv0809/squad-roster/internal/roster"
	"github.com/mauv0809/squad-roster/internal/screenshot"
	"github.com/mauv0809/squad-roster/internal/stats"
)

type Server struct {
	Roster         roster.RosterStore
	Stats          stats.StatsStore
	Attendance     attendance.AttendanceStore
	Announcements  announcement.AnnouncementStore
	Activity       activity.ActivityStore
	Leaderboard    *leaderboard.Service
	Recorder       *recorder.Recorder
	Files          *screenshot.Storage
	Issuer         *auth.Issuer
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	Counters       metrics.CounterStore
	MetricsHandler http.Handler
	PubSub         pubsub.PubSubClient
	Cfg            config.Config
	Router         chi.Router
}
