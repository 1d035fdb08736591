package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shubhamsaxena444/pingpongpro/internal/database"
	"github.com/shubhamsaxena444/pingpongpro/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) ledger.MatchStore {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return ledger.New(db)
}

func singlesMatch(playedAt time.Time) *ledger.MatchRecord {
	return &ledger.MatchRecord{
		ID:   uuid.NewString(),
		Type: ledger.MatchTypeSingles,
		Singles: &ledger.SinglesDetails{
			Player1ID:    "a",
			Player2ID:    "b",
			Player1Score: 21,
			Player2Score: 15,
			WinnerID:     "a",
		},
		CreatedBy: "a",
		PlayedAt:  playedAt,
	}
}

func doublesMatch(playedAt time.Time) *ledger.MatchRecord {
	return &ledger.MatchRecord{
		ID:   uuid.NewString(),
		Type: ledger.MatchTypeDoubles,
		Doubles: &ledger.DoublesDetails{
			Team1Player1ID: "a",
			Team1Player2ID: "b",
			Team2Player1ID: "c",
			Team2Player2ID: "d",
			Team1Score:     21,
			Team2Score:     18,
			WinnerTeam:     ledger.WinnerTeam1,
		},
		CreatedBy: "a",
		PlayedAt:  playedAt,
	}
}

func TestStore_CreateAndGet_Singles(t *testing.T) {
	store := newTestStore(t)

	m := singlesMatch(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	require.NoError(t, store.Create(m))

	got, err := store.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.MatchTypeSingles, got.Type)
	require.NotNil(t, got.Singles)
	assert.Nil(t, got.Doubles)
	assert.Equal(t, "a", got.Singles.WinnerID)
	assert.Equal(t, 21, got.Singles.Player1Score)
	assert.Equal(t, m.PlayedAt, got.PlayedAt)
}

func TestStore_CreateAndGet_Doubles(t *testing.T) {
	store := newTestStore(t)

	m := doublesMatch(time.Now().UTC().Truncate(time.Second))
	require.NoError(t, store.Create(m))

	got, err := store.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.MatchTypeDoubles, got.Type)
	require.NotNil(t, got.Doubles)
	assert.Nil(t, got.Singles)
	assert.Equal(t, ledger.WinnerTeam1, got.Doubles.WinnerTeam)
	assert.Equal(t, []string{"a", "b", "c", "d"}, got.Participants())
}

func TestStore_Create_RejectsInvalidMatches(t *testing.T) {
	store := newTestStore(t)
	playedAt := time.Now().UTC()

	tests := []struct {
		name   string
		mutate func(m *ledger.MatchRecord)
	}{
		{"tied score", func(m *ledger.MatchRecord) { m.Singles.Player2Score = m.Singles.Player1Score }},
		{"duplicate participant", func(m *ledger.MatchRecord) { m.Singles.Player2ID = m.Singles.Player1ID }},
		{"missing participant", func(m *ledger.MatchRecord) { m.Singles.Player2ID = "" }},
		{"negative score", func(m *ledger.MatchRecord) { m.Singles.Player2Score = -1 }},
		{"winner contradicts scores", func(m *ledger.MatchRecord) { m.Singles.WinnerID = m.Singles.Player2ID }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := singlesMatch(playedAt)
			tt.mutate(m)
			err := store.Create(m)
			var verr *ledger.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestStore_Create_RejectsDuplicateDoublesPlayer(t *testing.T) {
	store := newTestStore(t)

	m := doublesMatch(time.Now().UTC())
	m.Doubles.Team2Player2ID = "a"
	err := store.Create(m)
	var verr *ledger.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	m := singlesMatch(time.Now().UTC())
	require.NoError(t, store.Create(m))
	require.NoError(t, store.Delete(m.ID))

	_, err := store.Get(m.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestStore_Delete_NotFound(t *testing.T) {
	store := newTestStore(t)
	assert.ErrorIs(t, store.Delete("missing"), ledger.ErrNotFound)
}

func TestStore_List_OrdersByPlayedAtDesc(t *testing.T) {
	store := newTestStore(t)

	older := singlesMatch(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	newer := doublesMatch(time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC))
	require.NoError(t, store.Create(older))
	require.NoError(t, store.Create(newer))

	matches, err := store.List()
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, newer.ID, matches[0].ID)
	assert.Equal(t, older.ID, matches[1].ID)
}

func TestStore_SetSummary(t *testing.T) {
	store := newTestStore(t)

	m := singlesMatch(time.Now().UTC())
	require.NoError(t, store.Create(m))
	require.NoError(t, store.SetSummary(m.ID, "A dominant win."))

	got, err := store.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "A dominant win.", got.Summary)

	assert.ErrorIs(t, store.SetSummary("missing", "x"), ledger.ErrNotFound)
}
