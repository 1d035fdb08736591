package leaderboard

import "time"

// Tab selects which discipline a leaderboard request covers.
type Tab string

const (
	TabSingles Tab = "singles"
	TabDoubles Tab = "doubles"
	TabTeams   Tab = "teams"
)

// View selects the sort order of a leaderboard request.
type View string

const (
	ViewWins   View = "wins"
	ViewPoints View = "points"
)

// PlayerStats is one row of the singles or doubles leaderboard.
type PlayerStats struct {
	PlayerID    string `json:"player_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Rating      int    `json:"rating"`

	MatchesPlayed int `json:"matches_played"`
	MatchesWon    int `json:"matches_won"`
	MatchesLost   int `json:"matches_lost"`

	PointsScored      int `json:"points_scored"`
	PointsConceded    int `json:"points_conceded"`
	PointDifferential int `json:"point_differential"`

	WinRate           float64 `json:"win_rate"`
	AvgPointsPerMatch float64 `json:"avg_points_per_match"`
	BiggestWinMargin  int     `json:"biggest_win_margin"`
}

// TeamStats is one row of the teams leaderboard. A team is the unordered pair
// of teammates, keyed by their sorted ids.
type TeamStats struct {
	TeamKey     string `json:"team_key"`
	Player1ID   string `json:"player1_id"`
	Player2ID   string `json:"player2_id"`
	Player1Name string `json:"player1_name"`
	Player2Name string `json:"player2_name"`
	TeamRating  int    `json:"team_rating"`

	MatchesPlayed int `json:"matches_played"`
	MatchesWon    int `json:"matches_won"`
	MatchesLost   int `json:"matches_lost"`

	PointsScored      int `json:"points_scored"`
	PointsConceded    int `json:"points_conceded"`
	PointDifferential int `json:"point_differential"`

	WinRate           float64   `json:"win_rate"`
	AvgPointsPerMatch float64   `json:"avg_points_per_match"`
	LastPlayed        time.Time `json:"last_played"`
}
