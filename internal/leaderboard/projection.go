// Package leaderboard derives ranked views from the match ledger and the
// profile set. The projection is recomputed in full on every request, so it
// carries no state of its own and may run concurrently with writers.
package leaderboard

import (
	"sort"
	"strings"

	"github.com/shubhamsaxena444/pingpongpro/internal/ledger"
	"github.com/shubhamsaxena444/pingpongpro/internal/profile"
	"github.com/shubhamsaxena444/pingpongpro/internal/rating"
)

// Projection computes leaderboard rankings on demand.
type Projection struct {
	matches  ledger.MatchStore
	profiles profile.ProfileStore
}

// New creates a new Projection over the given stores.
func New(matches ledger.MatchStore, profiles profile.ProfileStore) *Projection {
	return &Projection{
		matches:  matches,
		profiles: profiles,
	}
}

// Players returns the singles or doubles leaderboard for the given view.
// Stats are accumulated from the full match list; ratings and display names
// come from the profile snapshots. Doubles matches credit both teammates the
// full team score.
func (p *Projection) Players(tab Tab, view View) ([]PlayerStats, error) {
	profiles, err := p.profiles.List()
	if err != nil {
		return nil, err
	}
	matches, err := p.matches.List()
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*PlayerStats, len(profiles))
	for _, prof := range profiles {
		r := prof.SinglesRating
		if tab == TabDoubles {
			r = prof.DoublesRating
		}
		rows[prof.ID] = &PlayerStats{
			PlayerID:    prof.ID,
			Username:    prof.Username,
			DisplayName: prof.DisplayName,
			Rating:      r,
		}
	}

	for _, m := range matches {
		switch {
		case tab == TabSingles && m.Type == ledger.MatchTypeSingles:
			d := m.Singles
			creditPlayer(rows, d.Player1ID, d.Player1Score, d.Player2Score, d.WinnerID == d.Player1ID)
			creditPlayer(rows, d.Player2ID, d.Player2Score, d.Player1Score, d.WinnerID == d.Player2ID)
		case tab == TabDoubles && m.Type == ledger.MatchTypeDoubles:
			d := m.Doubles
			team1Won := d.WinnerTeam == ledger.WinnerTeam1
			for _, id := range []string{d.Team1Player1ID, d.Team1Player2ID} {
				creditPlayer(rows, id, d.Team1Score, d.Team2Score, team1Won)
			}
			for _, id := range []string{d.Team2Player1ID, d.Team2Player2ID} {
				creditPlayer(rows, id, d.Team2Score, d.Team1Score, !team1Won)
			}
		}
	}

	stats := make([]PlayerStats, 0, len(rows))
	for _, row := range rows {
		finalizeDerived(row)
		stats = append(stats, *row)
	}
	sortPlayers(stats, view)
	return stats, nil
}

// Teams returns the teams leaderboard for the given view. Teams are grouped
// by the unordered pair of teammate ids.
func (p *Projection) Teams(view View) ([]TeamStats, error) {
	profiles, err := p.profiles.List()
	if err != nil {
		return nil, err
	}
	matches, err := p.matches.List()
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(profiles))
	ratings := make(map[string]map[string]profile.TeamPartnerStats, len(profiles))
	for _, prof := range profiles {
		names[prof.ID] = prof.DisplayName
		if prof.DisplayName == "" {
			names[prof.ID] = prof.Username
		}
		ratings[prof.ID] = prof.TeamPartners
	}

	rows := make(map[string]*TeamStats)
	for _, m := range matches {
		if m.Type != ledger.MatchTypeDoubles {
			continue
		}
		d := m.Doubles
		team1Won := d.WinnerTeam == ledger.WinnerTeam1
		creditTeam(rows, d.Team1Player1ID, d.Team1Player2ID, d.Team1Score, d.Team2Score, team1Won, m)
		creditTeam(rows, d.Team2Player1ID, d.Team2Player2ID, d.Team2Score, d.Team1Score, !team1Won, m)
	}

	stats := make([]TeamStats, 0, len(rows))
	for _, row := range rows {
		row.Player1Name = names[row.Player1ID]
		row.Player2Name = names[row.Player2ID]
		row.TeamRating = teamRating(ratings, row.Player1ID, row.Player2ID)
		finalizeTeamDerived(row)
		stats = append(stats, *row)
	}
	sortTeams(stats, view)
	return stats, nil
}

func creditPlayer(rows map[string]*PlayerStats, id string, scored, conceded int, won bool) {
	row, ok := rows[id]
	if !ok {
		// Matches can reference players whose profile has since vanished.
		// They still get a leaderboard row from match history alone.
		row = &PlayerStats{PlayerID: id, Rating: rating.InitialRating}
		rows[id] = row
	}
	row.MatchesPlayed++
	if won {
		row.MatchesWon++
		if margin := scored - conceded; margin > row.BiggestWinMargin {
			row.BiggestWinMargin = margin
		}
	} else {
		row.MatchesLost++
	}
	row.PointsScored += scored
	row.PointsConceded += conceded
}

func creditTeam(rows map[string]*TeamStats, id1, id2 string, scored, conceded int, won bool, m *ledger.MatchRecord) {
	key := TeamKey(id1, id2)
	row, ok := rows[key]
	if !ok {
		p1, p2 := id1, id2
		if p2 < p1 {
			p1, p2 = p2, p1
		}
		row = &TeamStats{TeamKey: key, Player1ID: p1, Player2ID: p2, TeamRating: rating.InitialRating}
		rows[key] = row
	}
	row.MatchesPlayed++
	if won {
		row.MatchesWon++
	} else {
		row.MatchesLost++
	}
	row.PointsScored += scored
	row.PointsConceded += conceded
	if m.PlayedAt.After(row.LastPlayed) {
		row.LastPlayed = m.PlayedAt
	}
}

// TeamKey returns the canonical key for an unordered pair of teammates.
func TeamKey(id1, id2 string) string {
	if id2 < id1 {
		id1, id2 = id2, id1
	}
	return id1 + ":" + id2
}

func teamRating(partners map[string]map[string]profile.TeamPartnerStats, id1, id2 string) int {
	if stats, ok := partners[id1][id2]; ok && stats.TeamRating != 0 {
		return stats.TeamRating
	}
	if stats, ok := partners[id2][id1]; ok && stats.TeamRating != 0 {
		return stats.TeamRating
	}
	return rating.InitialRating
}

func finalizeDerived(row *PlayerStats) {
	row.PointDifferential = row.PointsScored - row.PointsConceded
	if row.MatchesPlayed > 0 {
		row.WinRate = float64(row.MatchesWon) / float64(row.MatchesPlayed) * 100
		row.AvgPointsPerMatch = float64(row.PointsScored) / float64(row.MatchesPlayed)
	}
}

func finalizeTeamDerived(row *TeamStats) {
	row.PointDifferential = row.PointsScored - row.PointsConceded
	if row.MatchesPlayed > 0 {
		row.WinRate = float64(row.MatchesWon) / float64(row.MatchesPlayed) * 100
		row.AvgPointsPerMatch = float64(row.PointsScored) / float64(row.MatchesPlayed)
	}
}

func sortPlayers(stats []PlayerStats, view View) {
	sort.SliceStable(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		switch view {
		case ViewPoints:
			if a.PointDifferential != b.PointDifferential {
				return a.PointDifferential > b.PointDifferential
			}
		default: // wins
			if a.MatchesWon != b.MatchesWon {
				return a.MatchesWon > b.MatchesWon
			}
			if a.WinRate != b.WinRate {
				return a.WinRate > b.WinRate
			}
		}
		return strings.ToLower(a.Username) < strings.ToLower(b.Username)
	})
}

func sortTeams(stats []TeamStats, view View) {
	sort.SliceStable(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		switch view {
		case ViewPoints:
			if a.PointDifferential != b.PointDifferential {
				return a.PointDifferential > b.PointDifferential
			}
		default: // wins
			if a.MatchesWon != b.MatchesWon {
				return a.MatchesWon > b.MatchesWon
			}
			if a.WinRate != b.WinRate {
				return a.WinRate > b.WinRate
			}
		}
		return a.TeamKey < b.TeamKey
	})
}
