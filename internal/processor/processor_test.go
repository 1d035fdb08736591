package processor_test

import (
	"context"
	"testing"

	"github.com/shubhamsaxena444/pingpongpro/internal/database"
	"github.com/shubhamsaxena444/pingpongpro/internal/ledger"
	"github.com/shubhamsaxena444/pingpongpro/internal/metrics"
	"github.com/shubhamsaxena444/pingpongpro/internal/notifier"
	"github.com/shubhamsaxena444/pingpongpro/internal/processor"
	"github.com/shubhamsaxena444/pingpongpro/internal/profile"
	"github.com/shubhamsaxena444/pingpongpro/internal/pubsub"
	"github.com/shubhamsaxena444/pingpongpro/internal/summary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	processor *processor.Processor
	profiles  profile.ProfileStore
	matches   ledger.MatchStore
	generator *summary.MockGenerator
	notifier  *notifier.MockNotifier
	metrics   *metrics.Mock
	pubsub    *pubsub.MockPubSubClient
}

func newFixture(t *testing.T, usePubsub bool) *fixture {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	f := &fixture{
		profiles:  profile.New(db),
		matches:   ledger.New(db),
		generator: summary.NewMock(),
		notifier:  notifier.NewMock(),
		metrics:   metrics.NewMock(),
	}
	var ps pubsub.PubSubClient
	if usePubsub {
		f.pubsub = pubsub.NewMock()
		ps = f.pubsub
	}
	f.processor = processor.New(f.profiles, f.matches, f.generator, f.notifier, f.metrics, metrics.New(db), ps, nil)
	return f
}

func (f *fixture) register(t *testing.T, username string) *profile.PlayerProfile {
	t.Helper()
	prof, err := f.processor.RegisterPlayer(username, username)
	require.NoError(t, err)
	return prof
}

func TestRecordSinglesMatch_EndToEnd(t *testing.T) {
	f := newFixture(t, false)
	a := f.register(t, "alice")
	b := f.register(t, "bob")

	rec, err := f.processor.RecordSinglesMatch(context.Background(), processor.SinglesMatchInput{
		Player1ID:    a.ID,
		Player2ID:    b.ID,
		Player1Score: 21,
		Player2Score: 15,
		CreatedBy:    a.ID,
	}, false)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, a.ID, rec.Singles.WinnerID)

	gotA, err := f.profiles.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotA.SinglesMatchesPlayed)
	assert.Equal(t, 1, gotA.SinglesMatchesWon)
	// 1200 + (21-15)*10 + 25 = 1285
	assert.Equal(t, 1285, gotA.SinglesRating)

	gotB, err := f.profiles.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotB.SinglesMatchesPlayed)
	assert.Equal(t, 0, gotB.SinglesMatchesWon)
	// 1200 + (15-21)*10 = 1140
	assert.Equal(t, 1140, gotB.SinglesRating)

	assert.Equal(t, 1, f.metrics.MatchesRecorded())
	assert.Len(t, f.notifier.ResultNotificationCalls, 1)
	// Without pubsub the summary runs inline; the mock generator reports
	// unavailable, which must not fail the recording.
	assert.Len(t, f.generator.GenerateCalls, 1)
	assert.Equal(t, 1, f.metrics.SummariesFailed())
}

func TestRecordSinglesMatch_ValidationRejectsBeforeMutation(t *testing.T) {
	f := newFixture(t, false)
	a := f.register(t, "alice")
	b := f.register(t, "bob")

	_, err := f.processor.RecordSinglesMatch(context.Background(), processor.SinglesMatchInput{
		Player1ID:    a.ID,
		Player2ID:    b.ID,
		Player1Score: 21,
		Player2Score: 21,
	}, false)
	var verr *ledger.ValidationError
	require.ErrorAs(t, err, &verr)

	matches, err := f.matches.List()
	require.NoError(t, err)
	assert.Empty(t, matches)

	gotA, err := f.profiles.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, gotA.SinglesMatchesPlayed)
}

func TestRecordSinglesMatch_MissingProfileIsReported(t *testing.T) {
	f := newFixture(t, false)
	a := f.register(t, "alice")

	_, err := f.processor.RecordSinglesMatch(context.Background(), processor.SinglesMatchInput{
		Player1ID:    a.ID,
		Player2ID:    "ghost",
		Player1Score: 21,
		Player2Score: 15,
	}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, profile.ErrNotFound)

	// The ledger record stays; the inconsistency is reported, not rolled back.
	matches, lerr := f.matches.List()
	require.NoError(t, lerr)
	assert.Len(t, matches, 1)
}

func TestRecordSinglesMatch_DryRun(t *testing.T) {
	f := newFixture(t, false)
	a := f.register(t, "alice")
	b := f.register(t, "bob")

	rec, err := f.processor.RecordSinglesMatch(context.Background(), processor.SinglesMatchInput{
		Player1ID:    a.ID,
		Player2ID:    b.ID,
		Player1Score: 21,
		Player2Score: 15,
	}, true)
	require.NoError(t, err)
	require.NotNil(t, rec)

	matches, err := f.matches.List()
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, 0, f.metrics.MatchesRecorded())
}

func TestDeleteMatch_RestoresSingleMatchHistory(t *testing.T) {
	f := newFixture(t, false)
	a := f.register(t, "alice")
	b := f.register(t, "bob")

	rec, err := f.processor.RecordSinglesMatch(context.Background(), processor.SinglesMatchInput{
		Player1ID:    a.ID,
		Player2ID:    b.ID,
		Player1Score: 21,
		Player2Score: 15,
	}, false)
	require.NoError(t, err)

	require.NoError(t, f.processor.DeleteMatch(context.Background(), rec.ID, false))

	for _, id := range []string{a.ID, b.ID} {
		got, err := f.profiles.Get(id)
		require.NoError(t, err)
		assert.Equal(t, 0, got.SinglesMatchesPlayed)
		assert.Equal(t, 1200, got.SinglesRating, "single-match history resets the rating")
	}
	assert.Equal(t, 1, f.metrics.MatchesDeleted())

	_, err = f.matches.Get(rec.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestDeleteMatch_NotFound(t *testing.T) {
	f := newFixture(t, false)
	assert.ErrorIs(t, f.processor.DeleteMatch(context.Background(), "missing", false), ledger.ErrNotFound)
}

func TestRecordDoublesMatch_UpdatesAllFourProfiles(t *testing.T) {
	f := newFixture(t, false)
	a := f.register(t, "alice")
	b := f.register(t, "bob")
	c := f.register(t, "carol")
	d := f.register(t, "dan")

	_, err := f.processor.RecordDoublesMatch(context.Background(), processor.DoublesMatchInput{
		Team1Player1ID: a.ID,
		Team1Player2ID: b.ID,
		Team2Player1ID: c.ID,
		Team2Player2ID: d.ID,
		Team1Score:     21,
		Team2Score:     15,
	}, false)
	require.NoError(t, err)

	gotA, err := f.profiles.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotA.DoublesMatchesPlayed)
	assert.Equal(t, 1, gotA.DoublesMatchesWon)
	// Half share: (10-7)*10 + 25 = 55.
	assert.Equal(t, 1255, gotA.DoublesRating)

	gotB, err := f.profiles.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, gotA.TeamPartners[b.ID].MatchesPlayed, gotB.TeamPartners[a.ID].MatchesPlayed)
	assert.Equal(t, gotA.TeamPartners[b.ID].TeamRating, gotB.TeamPartners[a.ID].TeamRating)
	// Full team score on the pairing record.
	assert.Equal(t, 21, gotA.TeamPartners[b.ID].PointsScored)

	gotC, err := f.profiles.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, gotC.DoublesMatchesWon)
	// Losing half share: (7-10)*10 = -30.
	assert.Equal(t, 1170, gotC.DoublesRating)
}

func TestRecordDoublesMatch_ThenDelete_RestoresDefaults(t *testing.T) {
	f := newFixture(t, false)
	ids := []string{
		f.register(t, "alice").ID,
		f.register(t, "bob").ID,
		f.register(t, "carol").ID,
		f.register(t, "dan").ID,
	}

	rec, err := f.processor.RecordDoublesMatch(context.Background(), processor.DoublesMatchInput{
		Team1Player1ID: ids[0],
		Team1Player2ID: ids[1],
		Team2Player1ID: ids[2],
		Team2Player2ID: ids[3],
		Team1Score:     21,
		Team2Score:     15,
	}, false)
	require.NoError(t, err)
	require.NoError(t, f.processor.DeleteMatch(context.Background(), rec.ID, false))

	for _, id := range ids {
		got, err := f.profiles.Get(id)
		require.NoError(t, err)
		assert.Equal(t, 0, got.DoublesMatchesPlayed)
		assert.Equal(t, 1200, got.DoublesRating)
	}
}

func TestRecordMatch_PublishesEventsWhenPubsubConfigured(t *testing.T) {
	f := newFixture(t, true)
	a := f.register(t, "alice")
	b := f.register(t, "bob")

	rec, err := f.processor.RecordSinglesMatch(context.Background(), processor.SinglesMatchInput{
		Player1ID:    a.ID,
		Player2ID:    b.ID,
		Player1Score: 21,
		Player2Score: 15,
	}, false)
	require.NoError(t, err)

	require.Len(t, f.pubsub.SendMessageCalls, 2)
	assert.Equal(t, string(pubsub.EventNotifyResult), f.pubsub.SendMessageCalls[0].Topic)
	assert.Equal(t, pubsub.MatchEvent{MatchID: rec.ID}, f.pubsub.SendMessageCalls[0].Data)
	assert.Equal(t, string(pubsub.EventGenerateSummary), f.pubsub.SendMessageCalls[1].Topic)
	assert.Equal(t, pubsub.MatchEvent{MatchID: rec.ID}, f.pubsub.SendMessageCalls[1].Data)
	// Generation and notification are deferred to the push handlers.
	assert.Empty(t, f.generator.GenerateCalls)
	assert.Empty(t, f.notifier.ResultNotificationCalls)
}

func TestNotifyResult_SendsNotification(t *testing.T) {
	f := newFixture(t, true)
	a := f.register(t, "alice")
	b := f.register(t, "bob")

	rec, err := f.processor.RecordSinglesMatch(context.Background(), processor.SinglesMatchInput{
		Player1ID:    a.ID,
		Player2ID:    b.ID,
		Player1Score: 21,
		Player2Score: 15,
	}, false)
	require.NoError(t, err)
	require.Empty(t, f.notifier.ResultNotificationCalls)

	require.NoError(t, f.processor.NotifyResult(context.Background(), rec.ID, false))
	require.Len(t, f.notifier.ResultNotificationCalls, 1)
	assert.Equal(t, rec.ID, f.notifier.ResultNotificationCalls[0].ID)
}

func TestNotifyResult_UnknownMatch(t *testing.T) {
	f := newFixture(t, true)
	err := f.processor.NotifyResult(context.Background(), "gone", false)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestGenerateSummary_StoresText(t *testing.T) {
	f := newFixture(t, true)
	a := f.register(t, "alice")
	b := f.register(t, "bob")

	rec, err := f.processor.RecordSinglesMatch(context.Background(), processor.SinglesMatchInput{
		Player1ID:    a.ID,
		Player2ID:    b.ID,
		Player1Score: 21,
		Player2Score: 15,
	}, false)
	require.NoError(t, err)

	f.generator.GenerateFunc = func(ctx context.Context, req summary.MatchSummaryRequest) (string, error) {
		assert.Equal(t, "alice", req.Player1Name)
		assert.Equal(t, "alice", req.WinnerName)
		return "Alice storms to a 21-15 win!", nil
	}

	text, err := f.processor.GenerateSummary(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice storms to a 21-15 win!", text)

	got, err := f.matches.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice storms to a 21-15 win!", got.Summary)
	assert.Equal(t, 1, f.metrics.SummariesGenerated())
}

func TestGenerateSummary_UnavailableIsNonFatal(t *testing.T) {
	f := newFixture(t, true)
	a := f.register(t, "alice")
	b := f.register(t, "bob")

	rec, err := f.processor.RecordSinglesMatch(context.Background(), processor.SinglesMatchInput{
		Player1ID:    a.ID,
		Player2ID:    b.ID,
		Player1Score: 21,
		Player2Score: 15,
	}, false)
	require.NoError(t, err)

	_, err = f.processor.GenerateSummary(context.Background(), rec.ID)
	assert.ErrorIs(t, err, summary.ErrUnavailable)
	assert.Equal(t, 1, f.metrics.SummariesFailed())

	got, err := f.matches.Get(rec.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Summary)
}

func TestRegisterPlayer_DuplicateUsername(t *testing.T) {
	f := newFixture(t, false)
	f.register(t, "alice")

	_, err := f.processor.RegisterPlayer("alice", "Alice Again")
	assert.ErrorIs(t, err, profile.ErrDuplicateUsername)
}

func TestSuggestTeams_BalancesByDoublesRating(t *testing.T) {
	f := newFixture(t, false)
	a := f.register(t, "alice")
	b := f.register(t, "bob")
	c := f.register(t, "carol")
	d := f.register(t, "dan")

	// Give alice and bob strong doubles records so the balanced split pairs
	// each of them with a weaker player.
	for i := 0; i < 3; i++ {
		_, err := f.processor.RecordDoublesMatch(context.Background(), processor.DoublesMatchInput{
			Team1Player1ID: a.ID,
			Team1Player2ID: b.ID,
			Team2Player1ID: c.ID,
			Team2Player2ID: d.ID,
			Team1Score:     21,
			Team2Score:     10,
		}, false)
		require.NoError(t, err)
	}

	suggestion, err := f.processor.SuggestTeams([]string{a.ID, b.ID, c.ID, d.ID})
	require.NoError(t, err)

	team1 := map[string]bool{suggestion.Team1[0].ID: true, suggestion.Team1[1].ID: true}
	assert.False(t, team1[a.ID] && team1[b.ID], "the two strongest players should be split up")
	assert.False(t, team1[c.ID] && team1[d.ID], "the two weakest players should be split up")
}

func TestSuggestTeams_RejectsBadInput(t *testing.T) {
	f := newFixture(t, false)
	a := f.register(t, "alice")

	var verr *ledger.ValidationError
	_, err := f.processor.SuggestTeams([]string{a.ID})
	assert.ErrorAs(t, err, &verr)

	_, err = f.processor.SuggestTeams([]string{a.ID, a.ID, "x", "y"})
	assert.ErrorAs(t, err, &verr)
}
