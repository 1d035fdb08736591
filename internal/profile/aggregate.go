package profile

import (
	"time"

	"github.com/shubhamsaxena444/pingpongpro/internal/rating"
)

// NewProfile returns a fresh profile with default ratings.
func NewProfile(id, username, displayName string) *PlayerProfile {
	now := time.Now().UTC()
	p := &PlayerProfile{
		ID:            id,
		Username:      username,
		DisplayName:   displayName,
		SinglesRating: rating.InitialRating,
		DoublesRating: rating.InitialRating,
		OverallRating: rating.InitialRating,
		TeamPartners:  map[string]TeamPartnerStats{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.recomputeDerived()
	return p
}

// clone returns a deep copy so that apply/revert never mutate the input.
func (p *PlayerProfile) clone() *PlayerProfile {
	cp := *p
	cp.TeamPartners = make(map[string]TeamPartnerStats, len(p.TeamPartners))
	for k, v := range p.TeamPartners {
		cp.TeamPartners[k] = v
	}
	return &cp
}

// recomputeDerived refreshes the overall rating and the skill categories.
// The overall rating blends singles and doubles only once the player has
// played in both disciplines; with matches in one discipline it tracks that
// discipline, and with no matches at all it stays at the initial rating.
func (p *PlayerProfile) recomputeDerived() {
	switch {
	case p.SinglesMatchesPlayed > 0 && p.DoublesMatchesPlayed > 0:
		p.OverallRating = rating.Overall(p.SinglesRating, p.DoublesRating)
	case p.SinglesMatchesPlayed > 0:
		p.OverallRating = p.SinglesRating
	case p.DoublesMatchesPlayed > 0:
		p.OverallRating = p.DoublesRating
	default:
		p.OverallRating = rating.InitialRating
	}
	p.SinglesCategory = rating.CategoryFor(p.SinglesRating)
	p.DoublesCategory = rating.CategoryFor(p.DoublesRating)
}

// ApplySinglesResult folds one singles outcome into the profile and returns
// the updated copy.
func ApplySinglesResult(p *PlayerProfile, pointsScored, pointsConceded int, isWinner bool) (*PlayerProfile, error) {
	delta, err := rating.Delta(pointsScored, pointsConceded, isWinner)
	if err != nil {
		return nil, err
	}

	next := p.clone()
	next.SinglesMatchesPlayed++
	if isWinner {
		next.SinglesMatchesWon++
	}
	next.SinglesPointsScored += pointsScored
	next.SinglesPointsConceded += pointsConceded
	next.SinglesRating = rating.Apply(next.SinglesRating, delta)
	next.UpdatedAt = time.Now().UTC()
	next.recomputeDerived()
	return next, nil
}

// ApplyDoublesResult folds one doubles outcome into the profile. The scores
// are the full team scores. The individual doubles rating and point tallies
// use each teammate's half share of the team score, while the per-partner
// team stats keep the full team score.
func ApplyDoublesResult(p *PlayerProfile, teamScore, opponentScore int, isWinner bool, partnerID string, playedAt time.Time) (*PlayerProfile, error) {
	halfDelta, err := rating.Delta(teamScore/2, opponentScore/2, isWinner)
	if err != nil {
		return nil, err
	}
	teamDelta, err := rating.Delta(teamScore, opponentScore, isWinner)
	if err != nil {
		return nil, err
	}

	next := p.clone()
	next.DoublesMatchesPlayed++
	if isWinner {
		next.DoublesMatchesWon++
	}
	next.DoublesPointsScored += teamScore / 2
	next.DoublesPointsConceded += opponentScore / 2
	next.DoublesRating = rating.Apply(next.DoublesRating, halfDelta)

	partner, ok := next.TeamPartners[partnerID]
	if !ok {
		partner = TeamPartnerStats{TeamRating: rating.InitialRating}
	}
	partner.MatchesPlayed++
	if isWinner {
		partner.MatchesWon++
	}
	partner.PointsScored += teamScore
	partner.PointsConceded += opponentScore
	partner.TeamRating = rating.Apply(partner.TeamRating, teamDelta)
	partner.LastPlayed = playedAt
	next.TeamPartners[partnerID] = partner

	next.UpdatedAt = time.Now().UTC()
	next.recomputeDerived()
	return next, nil
}

// RevertSinglesResult undoes a previously applied singles outcome. Counters
// floor at zero, and a player whose only singles match is removed goes back
// to the initial rating. Otherwise the forward delta is subtracted, which is
// an approximation rather than an exact replay of history.
func RevertSinglesResult(p *PlayerProfile, pointsScored, pointsConceded int, isWinner bool) (*PlayerProfile, error) {
	delta, err := rating.Delta(pointsScored, pointsConceded, isWinner)
	if err != nil {
		return nil, err
	}

	next := p.clone()
	if next.SinglesMatchesPlayed <= 1 {
		next.SinglesRating = rating.InitialRating
	} else {
		next.SinglesRating = rating.Apply(next.SinglesRating, -delta)
	}
	next.SinglesMatchesPlayed = floorZero(next.SinglesMatchesPlayed - 1)
	if isWinner {
		next.SinglesMatchesWon = floorZero(next.SinglesMatchesWon - 1)
	}
	next.SinglesPointsScored = floorZero(next.SinglesPointsScored - pointsScored)
	next.SinglesPointsConceded = floorZero(next.SinglesPointsConceded - pointsConceded)
	next.UpdatedAt = time.Now().UTC()
	next.recomputeDerived()
	return next, nil
}

// RevertDoublesResult undoes a previously applied doubles outcome, mirroring
// the half-share and full-score split of ApplyDoublesResult.
func RevertDoublesResult(p *PlayerProfile, teamScore, opponentScore int, isWinner bool, partnerID string) (*PlayerProfile, error) {
	halfDelta, err := rating.Delta(teamScore/2, opponentScore/2, isWinner)
	if err != nil {
		return nil, err
	}
	teamDelta, err := rating.Delta(teamScore, opponentScore, isWinner)
	if err != nil {
		return nil, err
	}

	next := p.clone()
	if next.DoublesMatchesPlayed <= 1 {
		next.DoublesRating = rating.InitialRating
	} else {
		next.DoublesRating = rating.Apply(next.DoublesRating, -halfDelta)
	}
	next.DoublesMatchesPlayed = floorZero(next.DoublesMatchesPlayed - 1)
	if isWinner {
		next.DoublesMatchesWon = floorZero(next.DoublesMatchesWon - 1)
	}
	next.DoublesPointsScored = floorZero(next.DoublesPointsScored - teamScore/2)
	next.DoublesPointsConceded = floorZero(next.DoublesPointsConceded - opponentScore/2)

	if partner, ok := next.TeamPartners[partnerID]; ok {
		if partner.MatchesPlayed <= 1 {
			partner.TeamRating = rating.InitialRating
		} else {
			partner.TeamRating = rating.Apply(partner.TeamRating, -teamDelta)
		}
		partner.MatchesPlayed = floorZero(partner.MatchesPlayed - 1)
		if isWinner {
			partner.MatchesWon = floorZero(partner.MatchesWon - 1)
		}
		partner.PointsScored = floorZero(partner.PointsScored - teamScore)
		partner.PointsConceded = floorZero(partner.PointsConceded - opponentScore)
		next.TeamPartners[partnerID] = partner
	}

	next.UpdatedAt = time.Now().UTC()
	next.recomputeDerived()
	return next, nil
}

func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
