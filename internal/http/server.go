package http

import (
	"net/http"

	"github.com/shubhamsaxena444/pingpongpro/internal/config"
	"github.com/shubhamsaxena444/pingpongpro/internal/leaderboard"
	"github.com/shubhamsaxena444/pingpongpro/internal/ledger"
	"github.com/shubhamsaxena444/pingpongpro/internal/metrics"
	"github.com/shubhamsaxena444/pingpongpro/internal/notifier"
	"github.com/shubhamsaxena444/pingpongpro/internal/processor"
	"github.com/shubhamsaxena444/pingpongpro/internal/profile"
	"github.com/shubhamsaxena444/pingpongpro/internal/pubsub"
)

func NewServer(
	profiles profile.ProfileStore,
	matches ledger.MatchStore,
	projection *leaderboard.Projection,
	cache *leaderboard.Cache,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
	notifier notifier.Notifier,
	processor *processor.Processor,
	pubsub pubsub.PubSubClient,
) *Server {
	server := &Server{
		Profiles:       profiles,
		Matches:        matches,
		Projection:     projection,
		Cache:          cache,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/register", Chain(s.RegisterPlayerHandler(), paramsMiddleware))
	s.Router.Handle("/player-stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/record-match", Chain(s.RecordMatchHandler(), paramsMiddleware))
	s.Router.Handle("/delete-match", Chain(s.DeleteMatchHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/top-ratings", Chain(s.TopRatingsHandler(), paramsMiddleware))
	s.Router.Handle("/suggest-teams", Chain(s.SuggestTeamsHandler(), paramsMiddleware))
	s.Router.Handle("/generate-summary", Chain(s.GenerateSummaryHandler(), paramsMiddleware))
	s.Router.Handle("/notify-result", Chain(s.NotifyResultHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/player-stats", Chain(s.PlayerStatsCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
