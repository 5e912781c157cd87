package activity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/pubsub"
)

// New creates a new ActivityStore that publishes every entry through ps.
func New(db *sql.DB, ps pubsub.PubSubClient) ActivityStore {
	return &store{
		db:     db,
		pubsub: ps,
		now:    time.Now,
	}
}

// Record persists e and publishes it. A failed publish is logged, not returned.
func (s *store) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}

	s.mu.Lock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_log (user_id, username, action, created_at) VALUES (?, ?, ?, ?)`,
		e.UserID, e.Username, e.Action, e.CreatedAt.Unix())
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to record activity %s for %s: %w", e.Action, e.Username, err)
	}
	log.Info("Activity", "username", e.Username, "action", e.Action)

	event := pubsub.ActivityEvent{
		UserID:    e.UserID,
		Username:  e.Username,
		Action:    string(e.Action),
		Timestamp: e.CreatedAt.Unix(),
	}
	if err := s.pubsub.SendMessage(ctx, pubsub.EventActivity, event); err != nil {
		log.Warn("Failed to publish activity", "error", err, "action", e.Action)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, username, action, created_at FROM activity_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.Action, &created); err != nil {
			log.Error("Failed to scan activity row", "error", err)
			continue
		}
		e.CreatedAt = time.Unix(created, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ ActivityStore = (*store)(nil)

