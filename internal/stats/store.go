package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/match"
	"github.com/mauv0809/squad-roster/internal/scoring"
)

const recordColumns = `id, player_id, date, kills, position, damage, survival, match_type, booyah, screenshot`

// New creates a new StatsStore.
func New(db *sql.DB) StatsStore {
	return &store{
		db: db,
	}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Insert stores a new record and refreshes the owner's best stats in the same transaction.
func (s *store) Insert(ctx context.Context, r match.Record) (match.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return match.Record{}, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, r.PlayerID).Scan(&exists); err != nil {
		return match.Record{}, err
	}
	if exists == 0 {
		return match.Record{}, apperr.NotFound("player", r.PlayerID)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO match_records (player_id, date, kills, position, damage, survival, match_type, booyah, screenshot, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.PlayerID, r.DateString(), r.Kills, nullInt(r.Position), r.Damage, r.Survival,
		nullString(string(r.Type)), r.Booyah, nullString(r.Screenshot), time.Now().Unix())
	if err != nil {
		return match.Record{}, fmt.Errorf("failed to insert match record: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return match.Record{}, err
	}

	if err := s.refreshBest(ctx, tx, r.PlayerID); err != nil {
		return match.Record{}, err
	}
	if err := tx.Commit(); err != nil {
		return match.Record{}, err
	}
	log.Debug("Match record stored", "id", r.ID, "player_id", r.PlayerID)
	return r, nil
}

// Update overwrites the mutable fields of an existing record. The owner never changes.
func (s *store) Update(ctx context.Context, r match.Record) (match.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return match.Record{}, err
	}
	defer tx.Rollback()

	current, err := s.get(ctx, tx, r.ID)
	if err != nil {
		return match.Record{}, err
	}
	r.PlayerID = current.PlayerID

	_, err = tx.ExecContext(ctx, `
		UPDATE match_records
		SET date = ?, kills = ?, position = ?, damage = ?, survival = ?, match_type = ?, booyah = ?, screenshot = ?
		WHERE id = ?`,
		r.DateString(), r.Kills, nullInt(r.Position), r.Damage, r.Survival,
		nullString(string(r.Type)), r.Booyah, nullString(r.Screenshot), r.ID)
	if err != nil {
		return match.Record{}, fmt.Errorf("failed to update match record %d: %w", r.ID, err)
	}

	if err := s.refreshBest(ctx, tx, r.PlayerID); err != nil {
		return match.Record{}, err
	}
	if err := tx.Commit(); err != nil {
		return match.Record{}, err
	}
	return r, nil
}

// Delete removes a record and returns it as it was stored.
func (s *store) Delete(ctx context.Context, id int64) (match.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return match.Record{}, err
	}
	defer tx.Rollback()

	deleted, err := s.get(ctx, tx, id)
	if err != nil {
		return match.Record{}, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM match_records WHERE id = ?`, id); err != nil {
		return match.Record{}, fmt.Errorf("failed to delete match record %d: %w", id, err)
	}
	if err := s.refreshBest(ctx, tx, deleted.PlayerID); err != nil {
		return match.Record{}, err
	}
	if err := tx.Commit(); err != nil {
		return match.Record{}, err
	}
	return deleted, nil
}

func (s *store) Get(ctx context.Context, id int64) (match.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, s.db, id)
}

// ListByPlayer returns a player's records, newest first.
func (s *store) ListByPlayer(ctx context.Context, playerID int64) ([]match.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM match_records WHERE player_id = ? ORDER BY id DESC`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListByPlayers loads the records of every given player in one read transaction, oldest first.
// Players without records are absent from the map.
func (s *store) ListByPlayers(ctx context.Context, playerIDs []int64) (map[int64][]match.Record, error) {
	out := make(map[int64][]match.Record, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(playerIDs)), ",")
	rows, err := tx.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM match_records WHERE player_id IN (`+placeholders+`) ORDER BY id`,
		toAnySlice(playerIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		out[r.PlayerID] = append(out[r.PlayerID], r)
	}
	return out, tx.Commit()
}

// ListAll returns every record with its owner's username, newest first.
func (s *store) ListAll(ctx context.Context) ([]Proof, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.player_id, m.date, m.kills, m.position, m.damage, m.survival, m.match_type, m.booyah, m.screenshot, u.username
		FROM match_records m
		LEFT JOIN users u ON u.id = m.player_id
		ORDER BY m.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	proofs := []Proof{}
	for rows.Next() {
		var username sql.NullString
		r, err := scanRecord(rows, &username)
		if err != nil {
			log.Error("Failed to scan proof row", "error", err)
			continue
		}
		p := Proof{Record: r, Player: username.String}
		if !username.Valid {
			p.Player = unknownPlayer
		}
		proofs = append(proofs, p)
	}
	return proofs, rows.Err()
}

// ScreenshotInUse reports whether any record other than exceptID references name.
func (s *store) ScreenshotInUse(ctx context.Context, name string, exceptID int64) (bool, error) {
	if name == "" {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM match_records WHERE screenshot = ? AND id != ?`, name, exceptID).Scan(&n)
	return n > 0, err
}

// refreshBest recomputes the owner's best kills and damage from the rows visible to tx.
func (s *store) refreshBest(ctx context.Context, tx *sql.Tx, playerID int64) error {
	rows, err := tx.QueryContext(ctx, `SELECT kills, damage FROM match_records WHERE player_id = ?`, playerID)
	if err != nil {
		return err
	}
	var remaining []match.Record
	for rows.Next() {
		var r match.Record
		if err := rows.Scan(&r.Kills, &r.Damage); err != nil {
			rows.Close()
			return err
		}
		remaining = append(remaining, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	bestKills, bestDamage := scoring.RecomputeBest(remaining)
	if _, err := tx.ExecContext(ctx, `UPDATE users SET best_kills = ?, best_damage = ? WHERE id = ?`, bestKills, bestDamage, playerID); err != nil {
		return fmt.Errorf("failed to update best stats for player %d: %w", playerID, err)
	}
	return nil
}

func (s *store) get(ctx context.Context, q queryer, id int64) (match.Record, error) {
	row := q.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM match_records WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return match.Record{}, apperr.NotFound("match record", id)
	}
	return r, err
}

func scanRecords(rows *sql.Rows) ([]match.Record, error) {
	records := []match.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			log.Error("Failed to scan match record row", "error", err)
			continue
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// scanRecord is a helper function to scan a single record row followed by any extra columns.
func scanRecord(scanner interface{ Scan(...any) error }, extra ...any) (match.Record, error) {
	var (
		r          match.Record
		date       string
		position   sql.NullInt64
		matchType  sql.NullString
		screenshot sql.NullString
	)
	dest := append([]any{&r.ID, &r.PlayerID, &date, &r.Kills, &position, &r.Damage, &r.Survival, &matchType, &r.Booyah, &screenshot}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return match.Record{}, err
	}

	d, err := time.Parse(match.DateLayout, date)
	if err != nil {
		return match.Record{}, fmt.Errorf("record %d has malformed date %q: %w", r.ID, date, err)
	}
	r.Date = d
	if position.Valid {
		p := int(position.Int64)
		r.Position = &p
	}
	r.Type = match.Type(matchType.String)
	r.Screenshot = screenshot.String
	return r, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
