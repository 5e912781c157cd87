package attendance

import (
	"database/sql"
	"sync"
	"time"
)

type store struct {
	db *sql.DB
	mu sync.RWMutex
}

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// Mark is one practice attendance row, joined with the member's name.
type Mark struct {
	ID       int64     `json:"id"`
	PlayerID int64     `json:"player_id"`
	Name     string    `json:"name"`
	Date     time.Time `json:"-"`
	Status   Status    `json:"status"`
}

const unknownPlayer = "Unknown"
