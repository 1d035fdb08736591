package processor

import (
	"time"

	"github.com/shubhamsaxena444/pingpongpro/internal/leaderboard"
	"github.com/shubhamsaxena444/pingpongpro/internal/ledger"
	"github.com/shubhamsaxena444/pingpongpro/internal/metrics"
	"github.com/shubhamsaxena444/pingpongpro/internal/notifier"
	"github.com/shubhamsaxena444/pingpongpro/internal/profile"
	"github.com/shubhamsaxena444/pingpongpro/internal/pubsub"
	"github.com/shubhamsaxena444/pingpongpro/internal/summary"
)

// Processor handles the business logic of recording, deleting and enriching
// matches. It is the only writer of player profiles.
type Processor struct {
	profiles  profile.ProfileStore
	matches   ledger.MatchStore
	generator summary.Generator
	notifier  notifier.Notifier
	metrics   metrics.Metrics
	lifetime  metrics.MetricsStore
	pubsub    pubsub.PubSubClient
	cache     *leaderboard.Cache
	locks     *keyedLocks
}

// SinglesMatchInput is the request to record a singles match. The winner is
// derived from the scores.
type SinglesMatchInput struct {
	Player1ID    string    `json:"player1_id"`
	Player2ID    string    `json:"player2_id"`
	Player1Score int       `json:"player1_score"`
	Player2Score int       `json:"player2_score"`
	CreatedBy    string    `json:"created_by"`
	PlayedAt     time.Time `json:"played_at"`
}

// DoublesMatchInput is the request to record a doubles match.
type DoublesMatchInput struct {
	Team1Player1ID string    `json:"team1_player1_id"`
	Team1Player2ID string    `json:"team1_player2_id"`
	Team2Player1ID string    `json:"team2_player1_id"`
	Team2Player2ID string    `json:"team2_player2_id"`
	Team1Score     int       `json:"team1_score"`
	Team2Score     int       `json:"team2_score"`
	CreatedBy      string    `json:"created_by"`
	PlayedAt       time.Time `json:"played_at"`
}

// SuggestedPlayer is one player in a team suggestion.
type SuggestedPlayer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

// TeamSuggestion is a rating-balanced doubles pairing of four players.
type TeamSuggestion struct {
	Team1     [2]SuggestedPlayer `json:"team1"`
	Team2     [2]SuggestedPlayer `json:"team2"`
	RatingGap int                `json:"rating_gap"`
}
