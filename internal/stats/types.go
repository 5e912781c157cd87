package stats

import (
	"database/sql"
	"sync"

	"github.com/mauv0809/squad-roster/internal/match"
)

// store handles all database operations for match records.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Proof is a record listed in the screenshot gallery together with its owner's username.
type Proof struct {
	Record match.Record `json:"record"`
	Player string       `json:"player"`
}

// unknownPlayer labels records whose owner no longer exists.
const unknownPlayer = "Unknown"
