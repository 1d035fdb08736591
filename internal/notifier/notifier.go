package notifier

import (
	"github.com/shubhamsaxena444/pingpongpro/internal/leaderboard"
	"github.com/shubhamsaxena444/pingpongpro/internal/ledger"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For recorded matches. names maps player ids to display names.
	SendResultNotification(match *ledger.MatchRecord, names map[string]string, summaryText string, dryRun bool) error

	// For slash commands
	SendLeaderboard(stats []leaderboard.PlayerStats, tab leaderboard.Tab, dryRun bool) error
	SendPlayerStats(stats *leaderboard.PlayerStats, query string, dryRun bool) error
	SendPlayerNotFound(query string, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(stats []leaderboard.PlayerStats, tab leaderboard.Tab) (any, error)
	FormatPlayerStatsResponse(stats *leaderboard.PlayerStats, query string) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
