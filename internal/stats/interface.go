package stats

import (
	"context"

	"github.com/mauv0809/squad-roster/internal/match"
)

// StatsStore persists match records and keeps each player's best-stat cache in step with them.
type StatsStore interface {
	Insert(ctx context.Context, r match.Record) (match.Record, error)
	Update(ctx context.Context, r match.Record) (match.Record, error)
	Delete(ctx context.Context, id int64) (match.Record, error)
	Get(ctx context.Context, id int64) (match.Record, error)
	ListByPlayer(ctx context.Context, playerID int64) ([]match.Record, error)
	ListByPlayers(ctx context.Context, playerIDs []int64) (map[int64][]match.Record, error)
	ListAll(ctx context.Context) ([]Proof, error)
	ScreenshotInUse(ctx context.Context, name string, exceptID int64) (bool, error)
}
