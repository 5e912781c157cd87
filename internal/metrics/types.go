package metrics

import (
	"database/sql"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Service holds all the Prometheus metrics for the application.
type Service struct {
	RecordsSubmitted    *prometheus.CounterVec
	RecordsEdited       prometheus.Counter
	RecordsDeleted      prometheus.Counter
	LeaderboardDuration prometheus.Histogram
	FailedLogins        prometheus.Counter
	SlackNotifSent      prometheus.Counter
	SlackNotifFailed    prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}

// store handles counter-related database operations.
type store struct {
	db *sql.DB
	mu sync.Mutex
}

// Counter keys persisted by the CounterStore.
const (
	KeyRecordsSubmitted = "match_records_submitted"
	KeyRecordsEdited    = "match_records_edited"
	KeyRecordsDeleted   = "match_records_deleted"
	KeyAttendanceMarked = "attendance_marked"
)
