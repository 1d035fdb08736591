// Package rating holds the pure rating arithmetic shared by the profile
// aggregate and the leaderboard. Every function is deterministic and free of
// side effects.
package rating

import (
	"errors"
	"fmt"
	"math"
)

// Rating calculation constants.
const (
	InitialRating   = 1200 // starting rating for new players
	PointFactor     = 10   // rating points per match point of differential
	WinBonus        = 25   // bonus for winning a match
	MaxRatingChange = 100  // cap on the rating change of a single match
	MinRating       = 800  // minimum possible rating
)

// ErrInvalidInput is returned when a score argument is negative.
var ErrInvalidInput = errors.New("rating: scores must be non-negative")

// Category is a descriptive skill bracket derived from a numeric rating.
type Category string

const (
	CategoryNovice       Category = "Novice"
	CategoryBeginner     Category = "Beginner"
	CategoryIntermediate Category = "Intermediate"
	CategoryAdvanced     Category = "Advanced"
	CategoryExpert       Category = "Expert"
	CategoryMaster       Category = "Master"
)

// Delta computes the rating change for one player's match outcome. The change
// is the point differential scaled by PointFactor, plus WinBonus for a win,
// clamped to ±MaxRatingChange.
func Delta(pointsScored, pointsConceded int, isWinner bool) (int, error) {
	if pointsScored < 0 || pointsConceded < 0 {
		return 0, fmt.Errorf("%w: got %d-%d", ErrInvalidInput, pointsScored, pointsConceded)
	}

	change := (pointsScored - pointsConceded) * PointFactor
	if isWinner {
		change += WinBonus
	}

	if change > MaxRatingChange {
		return MaxRatingChange, nil
	}
	if change < -MaxRatingChange {
		return -MaxRatingChange, nil
	}
	return change, nil
}

// Apply adds a delta to a rating, enforcing the MinRating floor.
func Apply(current, delta int) int {
	next := current + delta
	if next < MinRating {
		return MinRating
	}
	return next
}

// Overall blends the singles and doubles ratings 60/40.
func Overall(singles, doubles int) int {
	return int(math.Round(float64(singles)*0.6 + float64(doubles)*0.4))
}

// CategoryFor maps a rating to its skill bracket.
func CategoryFor(rating int) Category {
	switch {
	case rating >= 1800:
		return CategoryMaster
	case rating >= 1600:
		return CategoryExpert
	case rating >= 1400:
		return CategoryAdvanced
	case rating >= 1200:
		return CategoryIntermediate
	case rating >= 1000:
		return CategoryBeginner
	default:
		return CategoryNovice
	}
}
