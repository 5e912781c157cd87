package roster

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for the roster.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Role is the access level of a roster member.
type Role string

const (
	RoleAdmin  Role = "admin"
	RolePlayer Role = "player"
	RoleViewer Role = "viewer"
)

// Player is a roster member. Admins and viewers share the table with competing players.
type Player struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	GameUID      string    `json:"ff_uid"`
	RoleLabel    string    `json:"player_role"`
	BestKills    int       `json:"best_kills"`
	BestDamage   int       `json:"best_damage"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewPlayer carries the fields needed to create a roster member.
type NewPlayer struct {
	Username     string
	PasswordHash string
	Role         Role
	GameUID      string
	RoleLabel    string
}

// ListFilter narrows List. A zero Role matches every role.
type ListFilter struct {
	Role       Role
	ActiveOnly bool
}
