package activity

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/squad-roster/internal/pubsub"
)

// store handles activity log database operations and mirrors entries to Pub/Sub.
type store struct {
	db     *sql.DB
	pubsub pubsub.PubSubClient
	mu     sync.Mutex
	now    func() time.Time
}

// Action names something a user did.
type Action string

const (
	ActionLogin          Action = "login"
	ActionLogout         Action = "logout"
	ActionAttendanceMark Action = "attendance_mark"
	ActionMatchSubmit    Action = "match_submit"
	ActionMatchEdit      Action = "match_edit"
	ActionMatchDelete    Action = "match_delete"
	ActionPasswordChange Action = "password_change"
)

// Entry is one line of the activity log.
type Entry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Action    Action    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultLimit bounds List when the caller passes no limit.
const DefaultLimit = 100
