package profile

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/shubhamsaxena444/pingpongpro/internal/rating"
)

// Store errors.
var (
	// ErrNotFound is returned when no profile exists for the given id or username.
	ErrNotFound = errors.New("profile: not found")
	// ErrVersionConflict is returned by Put when the profile was modified since
	// it was read. Callers should re-read and retry.
	ErrVersionConflict = errors.New("profile: version conflict")
	// ErrDuplicateUsername is returned by Create when the username is taken.
	ErrDuplicateUsername = errors.New("profile: username already exists")
)

// PlayerProfile is the authoritative per-player statistics record. Mutations
// go through the Apply/Revert functions which return a new value, then the
// result is persisted with Put.
type PlayerProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`

	SinglesRating int `json:"singles_rating"`
	DoublesRating int `json:"doubles_rating"`
	OverallRating int `json:"overall_rating"`

	SinglesCategory rating.Category `json:"singles_category"`
	DoublesCategory rating.Category `json:"doubles_category"`

	SinglesMatchesPlayed int `json:"singles_matches_played"`
	SinglesMatchesWon    int `json:"singles_matches_won"`
	DoublesMatchesPlayed int `json:"doubles_matches_played"`
	DoublesMatchesWon    int `json:"doubles_matches_won"`

	SinglesPointsScored   int `json:"singles_points_scored"`
	SinglesPointsConceded int `json:"singles_points_conceded"`
	DoublesPointsScored   int `json:"doubles_points_scored"`
	DoublesPointsConceded int `json:"doubles_points_conceded"`

	// TeamPartners holds per-pairing stats keyed by the partner's player id.
	TeamPartners map[string]TeamPartnerStats `json:"team_partners"`

	// Version backs the optimistic concurrency check in the store. It is not
	// part of the external representation.
	Version int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeamPartnerStats is the record for one doubles pairing, distinct from the
// player's individual doubles stats. Both members of a pairing carry a
// symmetric copy under each other's id.
type TeamPartnerStats struct {
	MatchesPlayed  int       `json:"matches_played"`
	MatchesWon     int       `json:"matches_won"`
	TeamRating     int       `json:"team_rating"`
	PointsScored   int       `json:"points_scored"`
	PointsConceded int       `json:"points_conceded"`
	LastPlayed     time.Time `json:"last_played"`
}

type store struct {
	db *sql.DB
	mu sync.RWMutex
}
