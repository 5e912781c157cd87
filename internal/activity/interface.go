package activity

import "context"

// ActivityStore records what users do.
type ActivityStore interface {
	Record(ctx context.Context, e Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
}
