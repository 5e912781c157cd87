package roster

import (
	"context"
	"sync"

	"github.com/mauv0809/squad-roster/internal/apperr"
)

// MockStore is a mock implementation of the RosterStore interface for testing.
// It is safe for concurrent use. Methods without a Func fall back to an in-memory roster.
type MockStore struct {
	mu      sync.Mutex
	players map[int64]Player
	nextID  int64

	GetFunc  func(ctx context.Context, id int64) (Player, error)
	ListFunc func(ctx context.Context, filter ListFilter) ([]Player, error)

	// Call records
	CreateCalls      []NewPlayer
	DeactivateCalls  []int64
	SetPasswordCalls []int64
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{players: map[int64]Player{}}
}

// Add seeds the mock with p and returns it with its assigned ID.
func (m *MockStore) Add(p Player) Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		m.nextID++
		p.ID = m.nextID
	} else if p.ID > m.nextID {
		m.nextID = p.ID
	}
	m.players[p.ID] = p
	return p
}

func (m *MockStore) Create(ctx context.Context, np NewPlayer) (Player, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, np)
	for _, p := range m.players {
		if p.Username == np.Username {
			m.mu.Unlock()
			return Player{}, apperr.Invalid("username", "%q already exists", np.Username)
		}
	}
	m.mu.Unlock()
	return m.Add(Player{Username: np.Username, PasswordHash: np.PasswordHash, Role: np.Role, GameUID: np.GameUID, RoleLabel: np.RoleLabel, Active: true}), nil
}

func (m *MockStore) Get(ctx context.Context, id int64) (Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	p, ok := m.players[id]
	if !ok {
		return Player{}, apperr.NotFound("player", id)
	}
	return p, nil
}

func (m *MockStore) GetByUsername(ctx context.Context, username string) (Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.Username == username {
			return p, nil
		}
	}
	return Player{}, apperr.NotFound("player", username)
}

func (m *MockStore) List(ctx context.Context, filter ListFilter) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	var out []Player
	for id := int64(1); id <= m.nextID; id++ {
		p, ok := m.players[id]
		if !ok {
			continue
		}
		if filter.Role != "" && p.Role != filter.Role {
			continue
		}
		if filter.ActiveOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *MockStore) Deactivate(ctx context.Context, id int64) (Player, error) {
	m.mu.Lock()
	m.DeactivateCalls = append(m.DeactivateCalls, id)
	m.mu.Unlock()
	return m.update(id, func(p *Player) { p.Active = false })
}

func (m *MockStore) Restore(ctx context.Context, id int64) (Player, error) {
	return m.update(id, func(p *Player) { p.Active = true })
}

func (m *MockStore) ToggleRole(ctx context.Context, id int64) (Player, error) {
	return m.update(id, func(p *Player) {
		if p.Role == RolePlayer {
			p.Role = RoleViewer
		} else if p.Role == RoleViewer {
			p.Role = RolePlayer
		}
	})
}

func (m *MockStore) UpdateProfile(ctx context.Context, id int64, gameUID, roleLabel string) (Player, error) {
	return m.update(id, func(p *Player) {
		p.GameUID = gameUID
		p.RoleLabel = roleLabel
	})
}

func (m *MockStore) SetPassword(ctx context.Context, id int64, hash string) error {
	m.mu.Lock()
	m.SetPasswordCalls = append(m.SetPasswordCalls, id)
	m.mu.Unlock()
	_, err := m.update(id, func(p *Player) { p.PasswordHash = hash })
	return err
}

func (m *MockStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players), nil
}

func (m *MockStore) EnsureAdmin(ctx context.Context, username, hash string) (bool, error) {
	if n, _ := m.Count(ctx); n > 0 {
		return false, nil
	}
	_, err := m.Create(ctx, NewPlayer{Username: username, PasswordHash: hash, Role: RoleAdmin})
	return err == nil, err
}

func (m *MockStore) update(id int64, fn func(*Player)) (Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return Player{}, apperr.NotFound("player", id)
	}
	fn(&p)
	m.players[id] = p
	return p, nil
}
