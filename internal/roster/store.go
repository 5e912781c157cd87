package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/apperr"
)

const playerColumns = `id, username, password_hash, role, ff_uid, player_role, best_kills, best_damage, active, created_at`

// New creates a new RosterStore.
func New(db *sql.DB) RosterStore {
	return &store{
		db: db,
	}
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Create inserts a roster member. Usernames are unique.
func (s *store) Create(ctx context.Context, p NewPlayer) (Player, error) {
	p.Username = strings.TrimSpace(p.Username)
	if p.Username == "" {
		return Player{}, apperr.Invalid("username", "is required")
	}
	if p.PasswordHash == "" {
		return Player{}, apperr.Invalid("password", "is required")
	}
	if p.Role == "" {
		p.Role = RolePlayer
	}
	if !p.Role.Valid() {
		return Player{}, apperr.Invalid("role", "%q is not one of admin, player, viewer", string(p.Role))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Player{}, err
	}
	defer tx.Rollback()

	var taken int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, p.Username).Scan(&taken); err != nil {
		return Player{}, err
	}
	if taken > 0 {
		return Player{}, apperr.Invalid("username", "%q already exists", p.Username)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role, ff_uid, player_role, active, created_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)`,
		p.Username, p.PasswordHash, p.Role, strings.TrimSpace(p.GameUID), strings.TrimSpace(p.RoleLabel), time.Now().Unix())
	if err != nil {
		return Player{}, fmt.Errorf("failed to insert player %s: %w", p.Username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Player{}, err
	}
	created, err := s.get(ctx, tx, id)
	if err != nil {
		return Player{}, err
	}
	if err := tx.Commit(); err != nil {
		return Player{}, err
	}
	log.Info("Roster member created", "username", created.Username, "role", created.Role)
	return created, nil
}

func (s *store) Get(ctx context.Context, id int64) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, s.db, id)
}

func (s *store) GetByUsername(ctx context.Context, username string) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM users WHERE username = ?`, strings.TrimSpace(username))
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, apperr.NotFound("player", username)
	}
	return p, err
}

// List returns roster members in creation order.
func (s *store) List(ctx context.Context, filter ListFilter) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + playerColumns + ` FROM users WHERE 1 = 1`
	var args []any
	if filter.Role != "" {
		query += ` AND role = ?`
		args = append(args, filter.Role)
	}
	if filter.ActiveOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// Deactivate soft-deletes an active player. Their match records are kept.
func (s *store) Deactivate(ctx context.Context, id int64) (Player, error) {
	return s.mutate(ctx, id, func(p *Player) error {
		if p.Role != RolePlayer || !p.Active {
			return apperr.Invalid("player", "%s is not an active player", p.Username)
		}
		p.Active = false
		return nil
	})
}

// Restore reactivates a deactivated player.
func (s *store) Restore(ctx context.Context, id int64) (Player, error) {
	return s.mutate(ctx, id, func(p *Player) error {
		if p.Role != RolePlayer || p.Active {
			return apperr.Invalid("player", "%s is not an inactive player", p.Username)
		}
		p.Active = true
		return nil
	})
}

// ToggleRole switches a member between player and viewer. Admins cannot be toggled.
func (s *store) ToggleRole(ctx context.Context, id int64) (Player, error) {
	return s.mutate(ctx, id, func(p *Player) error {
		switch p.Role {
		case RolePlayer:
			p.Role = RoleViewer
		case RoleViewer:
			p.Role = RolePlayer
		default:
			return apperr.Invalid("role", "cannot change the role of %s", p.Username)
		}
		return nil
	})
}

func (s *store) UpdateProfile(ctx context.Context, id int64, gameUID, roleLabel string) (Player, error) {
	return s.mutate(ctx, id, func(p *Player) error {
		p.GameUID = strings.TrimSpace(gameUID)
		p.RoleLabel = strings.TrimSpace(roleLabel)
		return nil
	})
}

func (s *store) SetPassword(ctx context.Context, id int64, hash string) error {
	if hash == "" {
		return apperr.Invalid("password", "is required")
	}
	_, err := s.mutate(ctx, id, func(p *Player) error {
		p.PasswordHash = hash
		return nil
	})
	return err
}

func (s *store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// EnsureAdmin creates the bootstrap admin when the roster is empty. It reports whether one was created.
func (s *store) EnsureAdmin(ctx context.Context, username, hash string) (bool, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, NewPlayer{Username: username, PasswordHash: hash, Role: RoleAdmin}); err != nil {
		return false, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	return true, nil
}

// mutate loads a member, applies fn and writes the mutable columns back in one transaction.
func (s *store) mutate(ctx context.Context, id int64, fn func(*Player) error) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Player{}, err
	}
	defer tx.Rollback()

	p, err := s.get(ctx, tx, id)
	if err != nil {
		return Player{}, err
	}
	if err := fn(&p); err != nil {
		return Player{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, role = ?, ff_uid = ?, player_role = ?, active = ?
		WHERE id = ?`,
		p.PasswordHash, p.Role, p.GameUID, p.RoleLabel, p.Active, p.ID)
	if err != nil {
		return Player{}, fmt.Errorf("failed to update player %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return Player{}, err
	}
	return p, nil
}

func (s *store) get(ctx context.Context, q rowQueryer, id int64) (Player, error) {
	row := q.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM users WHERE id = ?`, id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, apperr.NotFound("player", id)
	}
	return p, err
}

// scanPlayer is a helper function to scan a single player row.
func scanPlayer(scanner interface{ Scan(...any) error }) (Player, error) {
	var (
		p       Player
		created int64
	)
	err := scanner.Scan(&p.ID, &p.Username, &p.PasswordHash, &p.Role, &p.GameUID, &p.RoleLabel,
		&p.BestKills, &p.BestDamage, &p.Active, &created)
	if err != nil {
		return Player{}, err
	}
	p.CreatedAt = time.Unix(created, 0).UTC()
	return p, nil
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RolePlayer || r == RoleViewer
}
