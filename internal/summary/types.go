package summary

import "errors"

// ErrUnavailable is returned when summary generation cannot run, either
// because the service is not configured or the upstream call failed. Callers
// must treat it as a degraded-but-healthy outcome, never as a failure of the
// match-recording path.
var ErrUnavailable = errors.New("summary: generation unavailable")

// MatchSummaryRequest is the structured description of a finished match that
// the generator turns into commentary text. Exactly the singles or the
// doubles fields are populated, matching MatchType.
type MatchSummaryRequest struct {
	MatchType string `json:"match_type"`

	Player1Name  string `json:"player1_name,omitempty"`
	Player2Name  string `json:"player2_name,omitempty"`
	Player1Score int    `json:"player1_score,omitempty"`
	Player2Score int    `json:"player2_score,omitempty"`
	WinnerName   string `json:"winner_name,omitempty"`

	Team1Player1Name string   `json:"team1_player1_name,omitempty"`
	Team1Player2Name string   `json:"team1_player2_name,omitempty"`
	Team2Player1Name string   `json:"team2_player1_name,omitempty"`
	Team2Player2Name string   `json:"team2_player2_name,omitempty"`
	Team1Score       int      `json:"team1_score,omitempty"`
	Team2Score       int      `json:"team2_score,omitempty"`
	WinnerTeamNames  []string `json:"winner_team_names,omitempty"`
}
