package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shubhamsaxena444/pingpongpro/internal/leaderboard"
	"github.com/shubhamsaxena444/pingpongpro/internal/ledger"
	"github.com/shubhamsaxena444/pingpongpro/internal/metrics"
	"github.com/shubhamsaxena444/pingpongpro/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendResultNotification(match *ledger.MatchRecord, names map[string]string, summaryText string, dryRun bool) error {
	msg := s.formatResultNotification(match, names, summaryText)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(stats []leaderboard.PlayerStats, tab leaderboard.Tab, dryRun bool) error {
	msg := s.formatLeaderboard(stats, tab)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendPlayerStats(stats *leaderboard.PlayerStats, query string, dryRun bool) error {
	msg := s.formatPlayerStats(stats, query)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendPlayerNotFound(query string, dryRun bool) error {
	msg := s.formatPlayerNotFound(query)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(stats []leaderboard.PlayerStats, tab leaderboard.Tab) (any, error) {
	return s.formatLeaderboard(stats, tab), nil
}

// FormatPlayerStatsResponse formats a player stats message for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(stats *leaderboard.PlayerStats, query string) (any, error) {
	return s.formatPlayerStats(stats, query), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

// formatResultNotification creates the Slack message for a recorded match using Block Kit.
func (s *Notifier) formatResultNotification(match *ledger.MatchRecord, names map[string]string, summaryText string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏓 Match recorded! 🏓", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var resultText string
	switch match.Type {
	case ledger.MatchTypeSingles:
		d := match.Singles
		winner := displayName(names, d.WinnerID)
		resultText = fmt.Sprintf("%s vs %s\nFinal score: %d-%d\nResult: %s won! 🏆",
			displayName(names, d.Player1ID), displayName(names, d.Player2ID),
			d.Player1Score, d.Player2Score, winner)
	case ledger.MatchTypeDoubles:
		d := match.Doubles
		team1 := fmt.Sprintf("%s & %s", displayName(names, d.Team1Player1ID), displayName(names, d.Team1Player2ID))
		team2 := fmt.Sprintf("%s & %s", displayName(names, d.Team2Player1ID), displayName(names, d.Team2Player2ID))
		winners := team1
		if d.WinnerTeam == ledger.WinnerTeam2 {
			winners = team2
		}
		resultText = fmt.Sprintf("%s vs %s\nFinal score: %d-%d\nResult: %s won! 🏆",
			team1, team2, d.Team1Score, d.Team2Score, winners)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), nil, nil))

	if summaryText != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", summaryText, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the player leaderboard.
func (s *Notifier) formatLeaderboard(stats []leaderboard.PlayerStats, tab leaderboard.Tab) slack.Message {
	blocks := make([]slack.Block, 0)

	title := fmt.Sprintf("🏆 %s Leaderboard 🏆", tabTitle(tab))
	headerText := slack.NewTextBlockObject("plain_text", title, true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(stats) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No stats available yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, stat := range stats {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		name := stat.DisplayName
		if name == "" {
			name = stat.Username
		}
		playerText := fmt.Sprintf("%d. %s %s\n> Rating: %d | Win %%: %.2f%% (%d/%d) | Point diff: %+d",
			rank,
			medal,
			name,
			stat.Rating,
			stat.WinRate,
			stat.MatchesWon,
			stat.MatchesPlayed,
			stat.PointDifferential,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message to display a single player's stats.
func (s *Notifier) formatPlayerStats(stats *leaderboard.PlayerStats, query string) slack.Message {
	blocks := make([]slack.Block, 0)

	name := stats.DisplayName
	if name == "" {
		name = stats.Username
	}
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("📊 Stats for %s 📊", name), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	statsText := fmt.Sprintf(
		"Rating: %d\nMatches: %d (%d won, %d lost)\nWin %%: %.2f%%\nPoints: %d scored, %d conceded (%+d)\nBiggest win margin: %d",
		stats.Rating,
		stats.MatchesPlayed,
		stats.MatchesWon,
		stats.MatchesLost,
		stats.WinRate,
		stats.PointsScored,
		stats.PointsConceded,
		stats.PointDifferential,
		stats.BiggestWinMargin,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", statsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func tabTitle(tab leaderboard.Tab) string {
	switch tab {
	case leaderboard.TabDoubles:
		return "Doubles"
	case leaderboard.TabTeams:
		return "Teams"
	default:
		return "Singles"
	}
}

// formatPlayerNotFound creates a Slack message for when a player query matches nothing.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := slack.NewTextBlockObject("plain_text", fmt.Sprintf("No player found matching '%s'.", query), true, false)
	return slack.NewBlockMessage(slack.NewSectionBlock(text, nil, nil))
}
