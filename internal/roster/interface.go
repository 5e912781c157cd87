package roster

import "context"

// RosterStore defines the interface for interacting with roster members.
type RosterStore interface {
	Create(ctx context.Context, p NewPlayer) (Player, error)
	Get(ctx context.Context, id int64) (Player, error)
	GetByUsername(ctx context.Context, username string) (Player, error)
	List(ctx context.Context, filter ListFilter) ([]Player, error)
	Deactivate(ctx context.Context, id int64) (Player, error)
	Restore(ctx context.Context, id int64) (Player, error)
	ToggleRole(ctx context.Context, id int64) (Player, error)
	UpdateProfile(ctx context.Context, id int64, gameUID, roleLabel string) (Player, error)
	SetPassword(ctx context.Context, id int64, hash string) error
	Count(ctx context.Context) (int, error)
	EnsureAdmin(ctx context.Context, username, hash string) (bool, error)
}
