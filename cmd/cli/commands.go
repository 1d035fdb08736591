package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var (
	displayName string
	matchType   string
	tab         string
	view        string
	topTab      string
	topLimit    int
)

func init() {
	registerCmd.Flags().StringVar(&displayName, "display-name", "", "Display name for the new player")
	recordCmd.Flags().StringVar(&matchType, "type", "singles", "Match type: singles or doubles")
	leaderboardCmd.Flags().StringVar(&tab, "tab", "singles", "Leaderboard tab: singles, doubles or teams")
	leaderboardCmd.Flags().StringVar(&view, "view", "wins", "Leaderboard view: wins or points")
	topCmd.Flags().StringVar(&topTab, "tab", "singles", "Rating set: singles, doubles or teams")
	topCmd.Flags().IntVar(&topLimit, "limit", 10, "Number of entries to show")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(playerStatsCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Register a new player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/register", map[string]any{
			"username":     args[0],
			"display_name": displayName,
		})
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <player ids...> --type singles|doubles",
	Short: "Record a match; singles takes 2 player ids and 2 scores, doubles 4 ids and 2 scores",
	Args:  cobra.MinimumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"match_type": matchType}
		switch matchType {
		case "singles":
			if len(args) != 4 {
				return fmt.Errorf("singles expects <player1> <player2> <score1> <score2>")
			}
			body["player1_id"] = args[0]
			body["player2_id"] = args[1]
			if err := parseScores(args[2], args[3], body, "player1_score", "player2_score"); err != nil {
				return err
			}
		case "doubles":
			if len(args) != 6 {
				return fmt.Errorf("doubles expects <t1p1> <t1p2> <t2p1> <t2p2> <score1> <score2>")
			}
			body["team1_player1_id"] = args[0]
			body["team1_player2_id"] = args[1]
			body["team2_player1_id"] = args[2]
			body["team2_player2_id"] = args[3]
			if err := parseScores(args[4], args[5], body, "team1_score", "team2_score"); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown match type %q", matchType)
		}
		return performPostRequest("/record-match", body)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <match id>",
	Short: "Delete a match and revert its rating changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/delete-match?matchID=" + url.QueryEscape(args[0]))
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List recorded matches, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/leaderboard?tab=%s&view=%s", url.QueryEscape(tab), url.QueryEscape(view)))
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the cached top ratings for a tab",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/top-ratings?tab=%s&limit=%d", url.QueryEscape(topTab), topLimit))
	},
}

var playerStatsCmd = &cobra.Command{
	Use:   "stats <username>",
	Short: "Show a player's profile and ratings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/player-stats?player=" + url.QueryEscape(args[0]))
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <player ids...>",
	Short: "Suggest balanced doubles teams for four players",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/suggest-teams?players=" + url.QueryEscape(strings.Join(args, ",")))
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func parseScores(s1, s2 string, body map[string]any, key1, key2 string) error {
	var score1, score2 int
	if _, err := fmt.Sscanf(s1+" "+s2, "%d %d", &score1, &score2); err != nil {
		return fmt.Errorf("scores must be integers: %w", err)
	}
	body[key1] = score1
	body[key2] = score2
	return nil
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, body map[string]any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
