package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	recordsSubmitted     map[string]int
	recordsEdited        int
	recordsDeleted       int
	leaderboardDurations []float64
	failedLogins         int
	slackNotifSent       int
	slackNotifFailed     int
	startupTime          float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		recordsSubmitted: make(map[string]int),
	}
}

func (m *Mock) IncRecordsSubmitted(matchType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordsSubmitted[matchType]++
}

func (m *Mock) IncRecordsEdited() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordsEdited++
}

func (m *Mock) IncRecordsDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordsDeleted++
}

func (m *Mock) ObserveLeaderboardDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaderboardDurations = append(m.leaderboardDurations, duration)
}

func (m *Mock) IncFailedLogins() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failedLogins++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RecordsSubmitted returns how often IncRecordsSubmitted was called for matchType.
func (m *Mock) RecordsSubmitted(matchType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordsSubmitted[matchType]
}

// RecordsEdited returns the number of times IncRecordsEdited was called.
func (m *Mock) RecordsEdited() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordsEdited
}

// RecordsDeleted returns the number of times IncRecordsDeleted was called.
func (m *Mock) RecordsDeleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordsDeleted
}

// LeaderboardBuilds returns the number of observed leaderboard durations.
func (m *Mock) LeaderboardBuilds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.leaderboardDurations)
}

// FailedLogins returns the number of times IncFailedLogins was called.
func (m *Mock) FailedLogins() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failedLogins
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
