package http

import (
	"net/http"
	"time"

	"github.com/shubhamsaxena444/pingpongpro/internal/config"
	"github.com/shubhamsaxena444/pingpongpro/internal/leaderboard"
	"github.com/shubhamsaxena444/pingpongpro/internal/ledger"
	"github.com/shubhamsaxena444/pingpongpro/internal/metrics"
	"github.com/shubhamsaxena444/pingpongpro/internal/notifier"
	"github.com/shubhamsaxena444/pingpongpro/internal/processor"
	"github.com/shubhamsaxena444/pingpongpro/internal/profile"
	"github.com/shubhamsaxena444/pingpongpro/internal/pubsub"
)

type Server struct {
	Profiles       profile.ProfileStore
	Matches        ledger.MatchStore
	Projection     *leaderboard.Projection
	Cache          *leaderboard.Cache
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

// RecordMatchRequest is the body of a record-match call. match_type selects
// which set of fields is read.
type RecordMatchRequest struct {
	MatchType string `json:"match_type"`

	Player1ID    string `json:"player1_id,omitempty"`
	Player2ID    string `json:"player2_id,omitempty"`
	Player1Score int    `json:"player1_score,omitempty"`
	Player2Score int    `json:"player2_score,omitempty"`

	Team1Player1ID string `json:"team1_player1_id,omitempty"`
	Team1Player2ID string `json:"team1_player2_id,omitempty"`
	Team2Player1ID string `json:"team2_player1_id,omitempty"`
	Team2Player2ID string `json:"team2_player2_id,omitempty"`
	Team1Score     int    `json:"team1_score,omitempty"`
	Team2Score     int    `json:"team2_score,omitempty"`

	CreatedBy string    `json:"created_by,omitempty"`
	PlayedAt  time.Time `json:"played_at,omitempty"`
}

// RegisterPlayerRequest is the body of a register call.
type RegisterPlayerRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// LeaderboardResponse is the body of a leaderboard call. Players is set for
// the singles and doubles tabs, Teams for the teams tab.
type LeaderboardResponse struct {
	Tab     leaderboard.Tab           `json:"tab"`
	View    leaderboard.View          `json:"view"`
	Players []leaderboard.PlayerStats `json:"players,omitempty"`
	Teams   []leaderboard.TeamStats   `json:"teams,omitempty"`
}
