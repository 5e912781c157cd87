package announcement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/match"
)

func New(db *sql.DB) AnnouncementStore {
	return &store{db: db, now: time.Now}
}

// Post stores a new announcement. Date and time are optional but must be well formed when given.
func (s *store) Post(ctx context.Context, message, date, clock string) (Announcement, error) {
	a := Announcement{
		Message: strings.TrimSpace(message),
		Date:    strings.TrimSpace(date),
		Time:    strings.TrimSpace(clock),
	}
	if err := checkMessage("message", a.Message, MaxMessageLen); err != nil {
		return Announcement{}, err
	}
	if a.Date != "" {
		if _, err := match.ParseDate(a.Date); err != nil {
			return Announcement{}, err
		}
	}
	if a.Time != "" {
		if _, err := time.Parse(TimeLayout, a.Time); err != nil {
			return Announcement{}, apperr.Invalid("time", "%q is not an HH:MM time", a.Time)
		}
	}
	a.CreatedAt = s.now().UTC().Truncate(time.Second)

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO announcements (message, date, time, created_at) VALUES (?, ?, ?, ?)`,
		a.Message, a.Date, a.Time, a.CreatedAt.Unix())
	if err != nil {
		return Announcement{}, fmt.Errorf("failed to insert announcement: %w", err)
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return Announcement{}, err
	}
	log.Info("Announcement posted", "id", a.ID)
	return a, nil
}

// Latest returns the most recently posted announcement, or nil when there is none.
func (s *store) Latest(ctx context.Context) (*Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT id, message, date, time, created_at FROM announcements ORDER BY id DESC LIMIT 1`)
	a, err := scanAnnouncement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns every announcement, newest first.
func (s *store) List(ctx context.Context) ([]Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, message, date, time, created_at FROM announcements ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			log.Error("Failed to scan announcement row", "error", err)
			continue
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *store) AddNotification(ctx context.Context, message string) (Notification, error) {
	n := Notification{Message: strings.TrimSpace(message)}
	if err := checkMessage("message", n.Message, MaxNotificationLen); err != nil {
		return Notification{}, err
	}
	n.CreatedAt = s.now().UTC().Truncate(time.Second)

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `INSERT INTO notifications (message, created_at) VALUES (?, ?)`, n.Message, n.CreatedAt.Unix())
	if err != nil {
		return Notification{}, fmt.Errorf("failed to insert notification: %w", err)
	}
	if n.ID, err = res.LastInsertId(); err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (s *store) DeleteNotification(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("notification", id)
	}
	return nil
}

// ListNotifications returns every notification, newest first.
func (s *store) ListNotifications(ctx context.Context) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, message, created_at FROM notifications ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		var (
			n       Notification
			created int64
		)
		if err := rows.Scan(&n.ID, &n.Message, &created); err != nil {
			log.Error("Failed to scan notification row", "error", err)
			continue
		}
		n.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanAnnouncement(scanner interface{ Scan(...any) error }) (Announcement, error) {
	var (
		a       Announcement
		created int64
	)
	if err := scanner.Scan(&a.ID, &a.Message, &a.Date, &a.Time, &created); err != nil {
		return Announcement{}, err
	}
	a.CreatedAt = time.Unix(created, 0).UTC()
	return a, nil
}

func checkMessage(field, msg string, max int) error {
	if msg == "" {
		return apperr.Invalid(field, "is required")
	}
	if n := utf8.RuneCountInString(msg); n > max {
		return apperr.Invalid(field, "must be at most %d characters, got %d", max, n)
	}
	return nil
}
