package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotFound is returned when no match exists for the given id.
var ErrNotFound = errors.New("ledger: match not found")

// ValidationError describes a match record that violates a data invariant.
// It is rejected before any mutation and surfaced as a user-facing message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid match: %s: %s", e.Field, e.Reason)
}

// MatchType discriminates the two match variants. The values are part of the
// persisted representation and must not change.
type MatchType string

const (
	MatchTypeSingles MatchType = "singles"
	MatchTypeDoubles MatchType = "doubles"
)

// Team identifies one side of a doubles match.
const (
	WinnerTeam1 = "team1"
	WinnerTeam2 = "team2"
)

// SinglesDetails holds the singles-specific fields of a match record.
type SinglesDetails struct {
	Player1ID    string `json:"player1_id"`
	Player2ID    string `json:"player2_id"`
	Player1Score int    `json:"player1_score"`
	Player2Score int    `json:"player2_score"`
	WinnerID     string `json:"winner_id"`
}

// DoublesDetails holds the doubles-specific fields of a match record.
type DoublesDetails struct {
	Team1Player1ID string `json:"team1_player1_id"`
	Team1Player2ID string `json:"team1_player2_id"`
	Team2Player1ID string `json:"team2_player1_id"`
	Team2Player2ID string `json:"team2_player2_id"`
	Team1Score     int    `json:"team1_score"`
	Team2Score     int    `json:"team2_score"`
	WinnerTeam     string `json:"winner_team"`
}

// MatchRecord is one entry in the match ledger. Exactly one of Singles or
// Doubles is set, matching Type. Records are immutable once created, except
// for the summary text which may be attached later, and deletion.
type MatchRecord struct {
	ID        string          `json:"id"`
	Type      MatchType       `json:"match_type"`
	Singles   *SinglesDetails `json:"singles,omitempty"`
	Doubles   *DoublesDetails `json:"doubles,omitempty"`
	Summary   string          `json:"match_summary,omitempty"`
	CreatedBy string          `json:"created_by,omitempty"`
	PlayedAt  time.Time       `json:"played_at"`
}

// Validate checks every data invariant: scores are non-negative and not
// tied, participants are present and pairwise distinct, the declared winner
// agrees with the scores, and the variant fields match the type tag.
func (m *MatchRecord) Validate() error {
	switch m.Type {
	case MatchTypeSingles:
		if m.Singles == nil || m.Doubles != nil {
			return &ValidationError{Field: "match_type", Reason: "singles match must carry singles fields only"}
		}
		return m.Singles.validate()
	case MatchTypeDoubles:
		if m.Doubles == nil || m.Singles != nil {
			return &ValidationError{Field: "match_type", Reason: "doubles match must carry doubles fields only"}
		}
		return m.Doubles.validate()
	default:
		return &ValidationError{Field: "match_type", Reason: fmt.Sprintf("unknown match type %q", m.Type)}
	}
}

func (d *SinglesDetails) validate() error {
	if d.Player1ID == "" || d.Player2ID == "" {
		return &ValidationError{Field: "players", Reason: "both players must be selected"}
	}
	if d.Player1ID == d.Player2ID {
		return &ValidationError{Field: "players", Reason: "a player cannot play against themselves"}
	}
	if d.Player1Score < 0 || d.Player2Score < 0 {
		return &ValidationError{Field: "score", Reason: "scores must be non-negative"}
	}
	if d.Player1Score == d.Player2Score {
		return &ValidationError{Field: "score", Reason: "matches cannot end in a tie"}
	}
	winner := d.Player1ID
	if d.Player2Score > d.Player1Score {
		winner = d.Player2ID
	}
	if d.WinnerID != winner {
		return &ValidationError{Field: "winner_id", Reason: "winner does not match the scores"}
	}
	return nil
}

func (d *DoublesDetails) validate() error {
	ids := []string{d.Team1Player1ID, d.Team1Player2ID, d.Team2Player1ID, d.Team2Player2ID}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return &ValidationError{Field: "players", Reason: "all four players must be selected"}
		}
		if seen[id] {
			return &ValidationError{Field: "players", Reason: "a player cannot appear twice in the same match"}
		}
		seen[id] = true
	}
	if d.Team1Score < 0 || d.Team2Score < 0 {
		return &ValidationError{Field: "score", Reason: "scores must be non-negative"}
	}
	if d.Team1Score == d.Team2Score {
		return &ValidationError{Field: "score", Reason: "matches cannot end in a tie"}
	}
	winner := WinnerTeam1
	if d.Team2Score > d.Team1Score {
		winner = WinnerTeam2
	}
	if d.WinnerTeam != winner {
		return &ValidationError{Field: "winner_team", Reason: "winner does not match the scores"}
	}
	return nil
}

// Participants returns the ids of every player in the match.
func (m *MatchRecord) Participants() []string {
	switch m.Type {
	case MatchTypeSingles:
		if m.Singles == nil {
			return nil
		}
		return []string{m.Singles.Player1ID, m.Singles.Player2ID}
	case MatchTypeDoubles:
		if m.Doubles == nil {
			return nil
		}
		return []string{m.Doubles.Team1Player1ID, m.Doubles.Team1Player2ID, m.Doubles.Team2Player1ID, m.Doubles.Team2Player2ID}
	default:
		return nil
	}
}

type store struct {
	db *sql.DB
	mu sync.RWMutex
}
