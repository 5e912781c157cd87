package recorder

import (
	"io"
	"time"

	"github.com/mauv0809/squad-roster/internal/activity"
	"github.com/mauv0809/squad-roster/internal/match"
	"github.com/mauv0809/squad-roster/internal/metrics"
	"github.com/mauv0809/squad-roster/internal/notifier"
	"github.com/mauv0809/squad-roster/internal/pubsub"
	"github.com/mauv0809/squad-roster/internal/stats"
)

// Recorder runs the match submission workflow: proof storage, persistence and the side effects that follow.
type Recorder struct {
	stats    stats.StatsStore
	members  Members
	files    Files
	activity activity.ActivityStore
	notifier notifier.Notifier
	metrics  metrics.Metrics
	counters metrics.CounterStore
	pubsub   pubsub.PubSubClient
}

// Upload is a screenshot as received from the client.
type Upload struct {
	Filename string
	Body     io.Reader
}

// Submission carries the fields of a reported match.
type Submission struct {
	Date     time.Time
	Kills    int
	Position int
	Damage   int
	Survival int
	Type     match.Type
	// Screenshot is required on Submit and optional on Edit.
	Screenshot *Upload
}
