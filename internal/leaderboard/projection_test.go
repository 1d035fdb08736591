package leaderboard_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shubhamsaxena444/pingpongpro/internal/leaderboard"
	"github.com/shubhamsaxena444/pingpongpro/internal/ledger"
	"github.com/shubhamsaxena444/pingpongpro/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedProfiles(ids ...string) []*profile.PlayerProfile {
	var profiles []*profile.PlayerProfile
	for _, id := range ids {
		profiles = append(profiles, profile.NewProfile(id, id, id))
	}
	return profiles
}

func newProjection(profiles []*profile.PlayerProfile, matches []*ledger.MatchRecord) *leaderboard.Projection {
	matchStore := ledger.NewMock()
	matchStore.ListFunc = func() ([]*ledger.MatchRecord, error) {
		return matches, nil
	}
	profileStore := profile.NewMock()
	profileStore.ListFunc = func() ([]*profile.PlayerProfile, error) {
		return profiles, nil
	}
	return leaderboard.New(matchStore, profileStore)
}

func singles(id, p1, p2 string, s1, s2 int) *ledger.MatchRecord {
	winner := p1
	if s2 > s1 {
		winner = p2
	}
	return &ledger.MatchRecord{
		ID:   id,
		Type: ledger.MatchTypeSingles,
		Singles: &ledger.SinglesDetails{
			Player1ID: p1, Player2ID: p2,
			Player1Score: s1, Player2Score: s2,
			WinnerID: winner,
		},
		PlayedAt: time.Now().UTC(),
	}
}

func doubles(id string, t1 [2]string, t2 [2]string, s1, s2 int, playedAt time.Time) *ledger.MatchRecord {
	winner := ledger.WinnerTeam1
	if s2 > s1 {
		winner = ledger.WinnerTeam2
	}
	return &ledger.MatchRecord{
		ID:   id,
		Type: ledger.MatchTypeDoubles,
		Doubles: &ledger.DoublesDetails{
			Team1Player1ID: t1[0], Team1Player2ID: t1[1],
			Team2Player1ID: t2[0], Team2Player2ID: t2[1],
			Team1Score: s1, Team2Score: s2,
			WinnerTeam: winner,
		},
		PlayedAt: playedAt,
	}
}

func TestPlayers_SinglesAccumulation(t *testing.T) {
	proj := newProjection(fixedProfiles("a", "b"), []*ledger.MatchRecord{
		singles("m1", "a", "b", 21, 15),
		singles("m2", "b", "a", 21, 19),
	})

	stats, err := proj.Players(leaderboard.TabSingles, leaderboard.ViewWins)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byID := map[string]leaderboard.PlayerStats{}
	for _, s := range stats {
		byID[s.PlayerID] = s
	}

	a := byID["a"]
	assert.Equal(t, 2, a.MatchesPlayed)
	assert.Equal(t, 1, a.MatchesWon)
	assert.Equal(t, 1, a.MatchesLost)
	assert.Equal(t, 40, a.PointsScored)
	assert.Equal(t, 36, a.PointsConceded)
	assert.Equal(t, 4, a.PointDifferential)
	assert.InDelta(t, 50.0, a.WinRate, 0.001)
	assert.InDelta(t, 20.0, a.AvgPointsPerMatch, 0.001)
	assert.Equal(t, 6, a.BiggestWinMargin)
}

func TestPlayers_WinsView_TieBrokenByWinRate(t *testing.T) {
	// Wins [5, 5, 3] with win rates [83.3%, 62.5%, 100%] built from filler
	// opponents. p0 and p1 tie on wins and are split by win rate; p2's
	// perfect record does not outrank their higher win counts.
	var matches []*ledger.MatchRecord
	addRecord := func(p string, wins, losses int, filler string) {
		for i := 0; i < wins; i++ {
			matches = append(matches, singles(fmt.Sprintf("%s-w%d", p, i), p, filler, 21, 10))
		}
		for i := 0; i < losses; i++ {
			matches = append(matches, singles(fmt.Sprintf("%s-l%d", p, i), p, filler, 10, 21))
		}
	}
	addRecord("p0", 5, 1, "x0")
	addRecord("p1", 5, 3, "x1")
	addRecord("p2", 3, 0, "x2")

	proj := newProjection(fixedProfiles("p0", "p1", "p2", "x0", "x1", "x2"), matches)

	stats, err := proj.Players(leaderboard.TabSingles, leaderboard.ViewWins)
	require.NoError(t, err)

	var order []string
	for _, s := range stats {
		if s.PlayerID == "p0" || s.PlayerID == "p1" || s.PlayerID == "p2" {
			order = append(order, s.PlayerID)
		}
	}
	// Equal wins are broken by win rate, and 3 wins at 100% still ranks below 5 wins.
	assert.Equal(t, []string{"p0", "p1", "p2"}, order)
}

func TestPlayers_PointsView_SortsByDifferential(t *testing.T) {
	proj := newProjection(fixedProfiles("a", "b", "c"), []*ledger.MatchRecord{
		singles("m1", "a", "b", 21, 5),  // a +16, b -16
		singles("m2", "b", "c", 21, 19), // b +2, c -2
	})

	stats, err := proj.Players(leaderboard.TabSingles, leaderboard.ViewPoints)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, "a", stats[0].PlayerID)
	assert.Equal(t, "b", stats[1].PlayerID)
	assert.Equal(t, "c", stats[2].PlayerID)
}

func TestPlayers_DoublesCreditsFullTeamScore(t *testing.T) {
	playedAt := time.Now().UTC()
	proj := newProjection(fixedProfiles("a", "b", "c", "d"), []*ledger.MatchRecord{
		doubles("m1", [2]string{"a", "b"}, [2]string{"c", "d"}, 21, 15, playedAt),
	})

	stats, err := proj.Players(leaderboard.TabDoubles, leaderboard.ViewWins)
	require.NoError(t, err)

	byID := map[string]leaderboard.PlayerStats{}
	for _, s := range stats {
		byID[s.PlayerID] = s
	}
	// Both teammates are credited the whole team score.
	assert.Equal(t, 21, byID["a"].PointsScored)
	assert.Equal(t, 21, byID["b"].PointsScored)
	assert.Equal(t, 15, byID["a"].PointsConceded)
	assert.Equal(t, 1, byID["a"].MatchesWon)
	assert.Equal(t, 1, byID["c"].MatchesLost)
}

func TestTeams_GroupsByUnorderedPair(t *testing.T) {
	playedAt := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	later := playedAt.Add(24 * time.Hour)
	proj := newProjection(fixedProfiles("a", "b", "c", "d"), []*ledger.MatchRecord{
		doubles("m1", [2]string{"a", "b"}, [2]string{"c", "d"}, 21, 15, playedAt),
		// Same pairing listed in the opposite order groups into one team.
		doubles("m2", [2]string{"b", "a"}, [2]string{"c", "d"}, 18, 21, later),
	})

	stats, err := proj.Teams(leaderboard.ViewWins)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byKey := map[string]leaderboard.TeamStats{}
	for _, s := range stats {
		byKey[s.TeamKey] = s
	}

	ab := byKey[leaderboard.TeamKey("a", "b")]
	assert.Equal(t, 2, ab.MatchesPlayed)
	assert.Equal(t, 1, ab.MatchesWon)
	assert.Equal(t, 1, ab.MatchesLost)
	assert.Equal(t, 39, ab.PointsScored)
	assert.Equal(t, 36, ab.PointsConceded)
	assert.Equal(t, later, ab.LastPlayed)

	cd := byKey[leaderboard.TeamKey("d", "c")]
	assert.Equal(t, 2, cd.MatchesPlayed)
	assert.Equal(t, 1, cd.MatchesWon)
}

func TestPlayers_NoMatches_ZeroDerivedFields(t *testing.T) {
	proj := newProjection(fixedProfiles("a"), nil)

	stats, err := proj.Players(leaderboard.TabSingles, leaderboard.ViewWins)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Zero(t, stats[0].WinRate)
	assert.Zero(t, stats[0].AvgPointsPerMatch)
	assert.Equal(t, 1200, stats[0].Rating)
}
