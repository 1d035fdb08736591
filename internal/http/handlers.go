package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shubhamsaxena444/pingpongpro/internal/leaderboard"
	"github.com/shubhamsaxena444/pingpongpro/internal/ledger"
	"github.com/shubhamsaxena444/pingpongpro/internal/processor"
	"github.com/shubhamsaxena444/pingpongpro/internal/profile"
	"github.com/shubhamsaxena444/pingpongpro/internal/pubsub"
	"github.com/shubhamsaxena444/pingpongpro/internal/summary"
	"github.com/slack-go/slack"
	"github.com/vmihailenco/msgpack/v5"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID != "" {
			log.Info("Received request to clear a specific match", "matchID", matchID)
			if err := s.Matches.Delete(matchID); err != nil && !errors.Is(err, ledger.ErrNotFound) {
				http.Error(w, "Failed to clear match", http.StatusInternalServerError)
				log.Error("Failed to clear match from store", "matchID", matchID, "error", err)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared match %s from store!", matchID)
			log.Info("Successfully cleared match from store", "matchID", matchID)
		} else {
			log.Info("Received request to clear entire store")
			s.Matches.Clear()
			s.Profiles.Clear()
			s.Cache.Clear(r.Context())
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
			log.Info("Store cleared successfully")
		}
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Profiles.List()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(players); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) RegisterPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Username) == "" {
			http.Error(w, "Username is required", http.StatusBadRequest)
			return
		}

		player, err := s.Processor.RegisterPlayer(req.Username, req.DisplayName)
		if err != nil {
			if errors.Is(err, profile.ErrDuplicateUsername) {
				http.Error(w, "Username is already taken", http.StatusConflict)
				return
			}
			http.Error(w, "Failed to register player", http.StatusInternalServerError)
			log.Error("Failed to register player", "username", req.Username, "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(player); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("player")
		if username == "" {
			http.Error(w, "Missing 'player' parameter", http.StatusBadRequest)
			return
		}

		player, err := s.Profiles.GetByUsername(username)
		if err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				http.Error(w, "Player not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to get player", http.StatusInternalServerError)
			log.Error("Failed to get player from store", "player", username, "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(player); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Matches.List()
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(matches); err != nil {
			log.Error("Failed to encode matches to JSON", "error", err)
		}
	}
}

func (s *Server) RecordMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RecordMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)

		var rec *ledger.MatchRecord
		var err error
		switch ledger.MatchType(req.MatchType) {
		case ledger.MatchTypeSingles:
			rec, err = s.Processor.RecordSinglesMatch(r.Context(), processor.SinglesMatchInput{
				Player1ID:    req.Player1ID,
				Player2ID:    req.Player2ID,
				Player1Score: req.Player1Score,
				Player2Score: req.Player2Score,
				CreatedBy:    req.CreatedBy,
				PlayedAt:     req.PlayedAt,
			}, isDryRun)
		case ledger.MatchTypeDoubles:
			rec, err = s.Processor.RecordDoublesMatch(r.Context(), processor.DoublesMatchInput{
				Team1Player1ID: req.Team1Player1ID,
				Team1Player2ID: req.Team1Player2ID,
				Team2Player1ID: req.Team2Player1ID,
				Team2Player2ID: req.Team2Player2ID,
				Team1Score:     req.Team1Score,
				Team2Score:     req.Team2Score,
				CreatedBy:      req.CreatedBy,
				PlayedAt:       req.PlayedAt,
			}, isDryRun)
		default:
			http.Error(w, "match_type must be 'singles' or 'doubles'", http.StatusBadRequest)
			return
		}

		if err != nil {
			var validationErr *ledger.ValidationError
			switch {
			case errors.As(err, &validationErr):
				http.Error(w, validationErr.Error(), http.StatusBadRequest)
			case errors.Is(err, profile.ErrNotFound):
				http.Error(w, "One or more players are not registered", http.StatusNotFound)
			default:
				http.Error(w, "Failed to record match", http.StatusInternalServerError)
				log.Error("Failed to record match", "error", err)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(rec); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			http.Error(w, "Missing 'matchID' parameter", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)

		if err := s.Processor.DeleteMatch(r.Context(), matchID, isDryRun); err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				http.Error(w, "Match not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to delete match", http.StatusInternalServerError)
			log.Error("Failed to delete match", "matchID", matchID, "error", err)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Deleted match %s", matchID)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := leaderboard.Tab(r.URL.Query().Get("tab"))
		if tab == "" {
			tab = leaderboard.TabSingles
		}
		view := leaderboard.View(r.URL.Query().Get("view"))
		if view == "" {
			view = leaderboard.ViewWins
		}
		if view != leaderboard.ViewWins && view != leaderboard.ViewPoints {
			http.Error(w, "view must be 'wins' or 'points'", http.StatusBadRequest)
			return
		}

		resp := LeaderboardResponse{Tab: tab, View: view}
		var err error
		switch tab {
		case leaderboard.TabSingles, leaderboard.TabDoubles:
			resp.Players, err = s.Projection.Players(tab, view)
		case leaderboard.TabTeams:
			resp.Teams, err = s.Projection.Teams(view)
		default:
			http.Error(w, "tab must be 'singles', 'doubles' or 'teams'", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, "Failed to build leaderboard", http.StatusInternalServerError)
			log.Error("Failed to build leaderboard", "tab", tab, "view", view, "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error("Failed to encode leaderboard to JSON", "error", err)
		}
	}
}

func (s *Server) SuggestTeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playersParam := r.URL.Query().Get("players")
		if playersParam == "" {
			http.Error(w, "Missing 'players' parameter", http.StatusBadRequest)
			return
		}
		playerIDs := strings.Split(playersParam, ",")
		for i := range playerIDs {
			playerIDs[i] = strings.TrimSpace(playerIDs[i])
		}

		suggestion, err := s.Processor.SuggestTeams(playerIDs)
		if err != nil {
			var validationErr *ledger.ValidationError
			switch {
			case errors.As(err, &validationErr):
				http.Error(w, validationErr.Error(), http.StatusBadRequest)
			case errors.Is(err, profile.ErrNotFound):
				http.Error(w, "One or more players are not registered", http.StatusNotFound)
			default:
				http.Error(w, "Failed to suggest teams", http.StatusInternalServerError)
				log.Error("Failed to suggest teams", "error", err)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(suggestion); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) GenerateSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received generate summary message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		// Parse the outer JSON to get `data`
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		// Without a configured pubsub client the payload is decoded directly.
		event := pubsub.MatchEvent{}
		if s.pubsub != nil {
			err = s.pubsub.ProcessMessage(rawData, &event)
		} else {
			err = msgpack.Unmarshal(rawData, &event)
		}
		if err != nil {
			log.Error("Failed to decode summary event", "error", err)
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		_, err = s.Processor.GenerateSummary(r.Context(), event.MatchID)
		if err != nil {
			// Acknowledge unavailable generators and vanished matches so the
			// message is not redelivered forever.
			if errors.Is(err, summary.ErrUnavailable) || errors.Is(err, ledger.ErrNotFound) {
				log.Warn("Skipping summary generation", "matchID", event.MatchID, "error", err)
				w.Write([]byte("OK"))
				return
			}
			log.Error("Failed to generate summary", "matchID", event.MatchID, "error", err)
			http.Error(w, "Failed to generate summary", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) NotifyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received notify result message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		// Parse the outer JSON to get `data`
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		// Without a configured pubsub client the payload is decoded directly.
		event := pubsub.MatchEvent{}
		if s.pubsub != nil {
			err = s.pubsub.ProcessMessage(rawData, &event)
		} else {
			err = msgpack.Unmarshal(rawData, &event)
		}
		if err != nil {
			log.Error("Failed to decode notify event", "error", err)
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		isDryRun := isDryRunFromContext(r)
		if err := s.Processor.NotifyResult(r.Context(), event.MatchID, isDryRun); err != nil {
			// A vanished match is acknowledged so the message is not
			// redelivered forever.
			if errors.Is(err, ledger.ErrNotFound) {
				log.Warn("Skipping result notification", "matchID", event.MatchID, "error", err)
				w.Write([]byte("OK"))
				return
			}
			log.Error("Failed to notify result", "matchID", event.MatchID, "error", err)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// TopRatingsHandler serves the Redis-cached rating sets without a projection
// pass. Unavailable when no cache is configured.
func (s *Server) TopRatingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Cache == nil {
			http.Error(w, "Rating cache is not configured", http.StatusServiceUnavailable)
			return
		}

		tab := leaderboard.Tab(r.URL.Query().Get("tab"))
		if tab == "" {
			tab = leaderboard.TabSingles
		}
		if tab != leaderboard.TabSingles && tab != leaderboard.TabDoubles && tab != leaderboard.TabTeams {
			http.Error(w, "tab must be 'singles', 'doubles' or 'teams'", http.StatusBadRequest)
			return
		}

		limit := 10
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err == nil && parsed > 0 {
				limit = parsed
			} else {
				log.Warn("Invalid 'limit' parameter provided. Defaulting to 10.", "limit_param", limitStr)
			}
		}

		entries, err := s.Cache.TopRatings(r.Context(), tab, int64(limit))
		if err != nil {
			http.Error(w, "Failed to read cached ratings", http.StatusInternalServerError)
			log.Error("Failed to read cached ratings", "tab", tab, "error", err)
			return
		}
		if entries == nil {
			entries = []leaderboard.RatingEntry{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
// The command text may name a tab (singles, doubles); singles is the default.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		tab := leaderboard.TabSingles
		if text := strings.TrimSpace(strings.ToLower(r.FormValue("text"))); text == string(leaderboard.TabDoubles) {
			tab = leaderboard.TabDoubles
		}

		stats, err := s.Projection.Players(tab, leaderboard.ViewWins)
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to build leaderboard", "tab", tab, "error", err)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(stats, tab)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// PlayerStatsCommandHandler returns a handler for the /player-stats Slack command.
func (s *Server) PlayerStatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		playerName := strings.TrimSpace(r.FormValue("text"))
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", playerName)

		allStats, err := s.Projection.Players(leaderboard.TabSingles, leaderboard.ViewWins)
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to build player stats", "error", err)
			return
		}

		var msg any
		if stats := findPlayerStats(allStats, playerName); stats != nil {
			msg, err = s.Notifier.FormatPlayerStatsResponse(stats, playerName)
		} else {
			log.Warn("Could not find player stats", "player", playerName)
			msg, err = s.Notifier.FormatPlayerNotFoundResponse(playerName)
		}

		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}

// findPlayerStats matches a slash command query against usernames and display
// names, preferring exact matches over substring matches.
func findPlayerStats(stats []leaderboard.PlayerStats, query string) *leaderboard.PlayerStats {
	for i := range stats {
		if strings.EqualFold(stats[i].Username, query) || strings.EqualFold(stats[i].DisplayName, query) {
			return &stats[i]
		}
	}
	lowered := strings.ToLower(query)
	for i := range stats {
		if strings.Contains(strings.ToLower(stats[i].Username), lowered) ||
			strings.Contains(strings.ToLower(stats[i].DisplayName), lowered) {
			return &stats[i]
		}
	}
	return nil
}
