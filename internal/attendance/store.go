package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/match"
)

func New(db *sql.DB) AttendanceStore {
	return &store{db: db}
}

// MarkPresent records playerID as present on day. It returns false when the player was already marked that day.
func (s *store) MarkPresent(ctx context.Context, playerID int64, day time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (player_id, date, status) VALUES (?, ?, ?) ON CONFLICT(player_id, date) DO NOTHING`,
		playerID, match.Day(day).Format(match.DateLayout), StatusPresent)
	if err != nil {
		return false, fmt.Errorf("failed to mark attendance for player %d: %w", playerID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	log.Debug("Attendance marked", "player_id", playerID, "new", n > 0)
	return n > 0, nil
}

// List returns every attendance row, oldest first.
func (s *store) List(ctx context.Context) ([]Mark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.player_id, a.date, a.status, u.username
		FROM attendance a
		LEFT JOIN users u ON u.id = a.player_id
		ORDER BY a.date, a.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	marks := []Mark{}
	for rows.Next() {
		var (
			m        Mark
			date     string
			username sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.PlayerID, &date, &m.Status, &username); err != nil {
			log.Error("Failed to scan attendance row", "error", err)
			continue
		}
		if m.Date, err = time.Parse(match.DateLayout, date); err != nil {
			log.Error("Attendance row has malformed date", "id", m.ID, "date", date)
			continue
		}
		m.Name = username.String
		if !username.Valid {
			m.Name = unknownPlayer
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}

// MarshalJSON renders the date in match.DateLayout.
func (m Mark) MarshalJSON() ([]byte, error) {
	type plain Mark
	return json.Marshal(struct {
		plain
		Date string `json:"date"`
	}{plain(m), m.Date.Format(match.DateLayout)})
}
