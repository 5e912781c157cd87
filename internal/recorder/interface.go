package recorder

import (
	"context"
	"io"

	"github.com/mauv0809/squad-roster/internal/roster"
)

// Files defines the screenshot storage operations required by the recorder.
type Files interface {
	Save(filename string, r io.Reader) (string, error)
	Delete(name string) error
}

// Members resolves record owners for notifications and events.
type Members interface {
	Get(ctx context.Context, id int64) (roster.Player, error)
}
