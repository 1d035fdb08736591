package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shubhamsaxena444/pingpongpro/internal/leaderboard"
	"github.com/shubhamsaxena444/pingpongpro/internal/ledger"
	"github.com/shubhamsaxena444/pingpongpro/internal/metrics"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendResultNotification_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	match := &ledger.MatchRecord{
		ID:   "m1",
		Type: ledger.MatchTypeSingles,
		Singles: &ledger.SinglesDetails{
			Player1ID: "a", Player2ID: "b",
			Player1Score: 21, Player2Score: 15,
			WinnerID: "a",
		},
		PlayedAt: time.Now().UTC(),
	}
	names := map[string]string{"a": "Alice", "b": "Bob"}

	err := notifier.SendResultNotification(match, names, "What a match!", false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
}

func TestFormatResultNotification_Doubles(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	match := &ledger.MatchRecord{
		ID:   "m1",
		Type: ledger.MatchTypeDoubles,
		Doubles: &ledger.DoublesDetails{
			Team1Player1ID: "a", Team1Player2ID: "b",
			Team2Player1ID: "c", Team2Player2ID: "d",
			Team1Score: 18, Team2Score: 21,
			WinnerTeam: ledger.WinnerTeam2,
		},
		PlayedAt: time.Now().UTC(),
	}
	names := map[string]string{"a": "Alice", "b": "Bob", "c": "Carol", "d": "Dan"}

	msg := notifier.formatResultNotification(match, names, "")
	require.NotEmpty(t, msg.Blocks.BlockSet)

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "Carol & Dan")
	assert.Contains(t, section.Text.Text, "18-21")
}

func TestFormatLeaderboard_Empty(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	msg := notifier.formatLeaderboard(nil, leaderboard.TabSingles)
	require.Len(t, msg.Blocks.BlockSet, 2)

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "No stats available")
}

func TestFormatLeaderboard_RanksWithMedals(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	stats := []leaderboard.PlayerStats{
		{PlayerID: "a", Username: "alice", Rating: 1350, MatchesPlayed: 5, MatchesWon: 4, WinRate: 80},
		{PlayerID: "b", Username: "bob", Rating: 1250, MatchesPlayed: 5, MatchesWon: 3, WinRate: 60},
	}

	msg := notifier.formatLeaderboard(stats, leaderboard.TabSingles)
	require.Len(t, msg.Blocks.BlockSet, 3)

	first, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, first.Text.Text, "🥇")
	assert.Contains(t, first.Text.Text, "alice")
	assert.Contains(t, first.Text.Text, "1350")
}
