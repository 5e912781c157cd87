package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/squad-roster/internal/scoring"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for send functions
	SendMatchSubmittedFunc func(notice MatchNotice, dryRun bool) error

	// Call records
	SendMatchSubmittedCalls []MatchNotice
	SendAnnouncementCalls   []AnnouncementNotice
	SendLeaderboardCalls    [][]scoring.LeaderboardEntry
	DryRunCalls             int

	// Spies for format functions
	FormatLeaderboardResponseFunc func(title string, entries []scoring.LeaderboardEntry) (any, error)

	// Call records for format functions
	LastLeaderboardResponse    any
	LastPlayerResponse         any
	LastPlayerNotFoundResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchSubmittedCalls = nil
	m.SendAnnouncementCalls = nil
	m.SendLeaderboardCalls = nil
	m.DryRunCalls = 0
	m.LastLeaderboardResponse = nil
	m.LastPlayerResponse = nil
	m.LastPlayerNotFoundResponse = nil
}

func (m *Mock) SendMatchSubmitted(ctx context.Context, notice MatchNotice, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchSubmittedCalls = append(m.SendMatchSubmittedCalls, notice)
	if dryRun {
		m.DryRunCalls++
	}
	if m.SendMatchSubmittedFunc != nil {
		return m.SendMatchSubmittedFunc(notice, dryRun)
	}
	return nil
}

func (m *Mock) SendAnnouncement(ctx context.Context, notice AnnouncementNotice, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendAnnouncementCalls = append(m.SendAnnouncementCalls, notice)
	if dryRun {
		m.DryRunCalls++
	}
	return nil
}

func (m *Mock) SendLeaderboard(ctx context.Context, title string, entries []scoring.LeaderboardEntry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, entries)
	if dryRun {
		m.DryRunCalls++
	}
	return nil
}

func (m *Mock) FormatLeaderboardResponse(title string, entries []scoring.LeaderboardEntry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(title, entries)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	m.LastLeaderboardResponse = "formatted_leaderboard"
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatPlayerResponse(agg scoring.Aggregate) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastPlayerResponse = agg
	return "formatted_player", nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastPlayerNotFoundResponse = query
	return "formatted_player_not_found", nil
}
