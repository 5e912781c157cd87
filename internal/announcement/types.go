package announcement

import (
	"database/sql"
	"sync"
	"time"
)

type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

const (
	MaxMessageLen      = 200
	MaxNotificationLen = 500

	// TimeLayout is the wire format of an announcement's time of day.
	TimeLayout = "15:04"
)

// Announcement is an admin message pinned to the dashboard.
type Announcement struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is a free-form team notice.
type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
