package notifier

import (
	"sync"

	"github.com/shubhamsaxena444/pingpongpro/internal/leaderboard"
	"github.com/shubhamsaxena444/pingpongpro/internal/ledger"
)

// MockNotifier is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type MockNotifier struct {
	mu sync.Mutex

	SendResultNotificationFunc func(match *ledger.MatchRecord, names map[string]string, summaryText string, dryRun bool) error
	SendLeaderboardFunc        func(stats []leaderboard.PlayerStats, tab leaderboard.Tab, dryRun bool) error
	SendPlayerStatsFunc        func(stats *leaderboard.PlayerStats, query string, dryRun bool) error
	SendPlayerNotFoundFunc     func(query string, dryRun bool) error

	ResultNotificationCalls []*ledger.MatchRecord
	LeaderboardCalls        []leaderboard.Tab
	PlayerStatsCalls        []string
}

// NewMock creates a new mock instance.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

// Reset clears all call records.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultNotificationCalls = nil
	m.LeaderboardCalls = nil
	m.PlayerStatsCalls = nil
}

func (m *MockNotifier) SendResultNotification(match *ledger.MatchRecord, names map[string]string, summaryText string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultNotificationCalls = append(m.ResultNotificationCalls, match)
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(match, names, summaryText, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendLeaderboard(stats []leaderboard.PlayerStats, tab leaderboard.Tab, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LeaderboardCalls = append(m.LeaderboardCalls, tab)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(stats, tab, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendPlayerStats(stats *leaderboard.PlayerStats, query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayerStatsCalls = append(m.PlayerStatsCalls, query)
	if m.SendPlayerStatsFunc != nil {
		return m.SendPlayerStatsFunc(stats, query, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendPlayerNotFound(query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendPlayerNotFoundFunc != nil {
		return m.SendPlayerNotFoundFunc(query, dryRun)
	}
	return nil
}

func (m *MockNotifier) FormatLeaderboardResponse(stats []leaderboard.PlayerStats, tab leaderboard.Tab) (any, error) {
	return nil, nil
}

func (m *MockNotifier) FormatPlayerStatsResponse(stats *leaderboard.PlayerStats, query string) (any, error) {
	return nil, nil
}

func (m *MockNotifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return nil, nil
}
