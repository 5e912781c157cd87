package attendance

import (
	"context"
	"time"
)

// AttendanceStore tracks who joined practice on which day.
type AttendanceStore interface {
	MarkPresent(ctx context.Context, playerID int64, day time.Time) (bool, error)
	List(ctx context.Context) ([]Mark, error)
}
