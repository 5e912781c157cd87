package leaderboard

import (
	"context"

	"github.com/mauv0809/squad-roster/internal/match"
	"github.com/mauv0809/squad-roster/internal/metrics"
	"github.com/mauv0809/squad-roster/internal/roster"
	"github.com/mauv0809/squad-roster/internal/scoring"
)

// Members defines the roster reads the leaderboard needs.
type Members interface {
	List(ctx context.Context, filter roster.ListFilter) ([]roster.Player, error)
	GetByUsername(ctx context.Context, username string) (roster.Player, error)
}

// Records defines the match record reads the leaderboard needs.
type Records interface {
	ListByPlayers(ctx context.Context, playerIDs []int64) (map[int64][]match.Record, error)
}

// Service loads roster members and their records and hands them to the scoring engine.
type Service struct {
	members Members
	records Records
	metrics metrics.Metrics
}

// Profile is a player's public page.
type Profile struct {
	Player    roster.Player     `json:"player"`
	Aggregate scoring.Aggregate `json:"stats"`
}

// Graph is a player's kills per match in the order the matches were reported.
type Graph struct {
	Dates []string `json:"dates"`
	Kills []int    `json:"kills"`
}

// Summary is the quick stat block on a player's dashboard.
type Summary struct {
	Kills   int `json:"kills"`
	Matches int `json:"matches"`
}
