// Package summary generates short commentary for finished matches using an
// Azure OpenAI chat-completions deployment. Generation is always optional:
// when the deployment is not configured or the call fails, callers get
// ErrUnavailable and carry on without text.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type client struct {
	endpoint       string
	apiKey         string
	deploymentName string
	apiVersion     string
	commentator    string
	httpClient     *http.Client
}

// NewClient creates a new Generator. An empty endpoint or api key yields a
// client that always reports ErrUnavailable.
func NewClient(endpoint, apiKey, deploymentName, apiVersion, commentator string) Generator {
	return &client{
		endpoint:       strings.TrimRight(endpoint, "/"),
		apiKey:         apiKey,
		deploymentName: deploymentName,
		apiVersion:     apiVersion,
		commentator:    commentator,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *client) Generate(ctx context.Context, req MatchSummaryRequest) (string, error) {
	if c.endpoint == "" || c.apiKey == "" || c.deploymentName == "" {
		return "", ErrUnavailable
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s", c.endpoint, c.deploymentName, c.apiVersion)

	body, err := json.Marshal(chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt()},
			{Role: "user", Content: prompt(req)},
		},
		MaxTokens:   150,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Warn("Summary generation request failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		log.Warn("Summary generation returned non-OK status", "status", resp.StatusCode, "body", string(respBody))
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func (c *client) systemPrompt() string {
	prompt := "You are an enthusiastic table tennis commentator who writes brief, exciting summaries of matches."
	if c.commentator != "" {
		prompt += fmt.Sprintf(" You are emulating the style of %s.", c.commentator)
	}
	return prompt
}

func prompt(req MatchSummaryRequest) string {
	if req.MatchType == "doubles" {
		return fmt.Sprintf(
			"Write a brief, exciting sports commentary style summary (2-3 sentences) of a table tennis doubles match with these details:\n"+
				"Team 1: %s & %s\n"+
				"Team 2: %s & %s\n"+
				"Final Score: %d-%d\n"+
				"Winners: %s\n"+
				"Be creative, enthusiastic, and mention the score. Don't use placeholder text.",
			req.Team1Player1Name, req.Team1Player2Name,
			req.Team2Player1Name, req.Team2Player2Name,
			req.Team1Score, req.Team2Score,
			strings.Join(req.WinnerTeamNames, " & "),
		)
	}
	return fmt.Sprintf(
		"Write a brief, exciting sports commentary style summary (2-3 sentences) of a table tennis match with these details:\n"+
			"Player 1: %s\n"+
			"Player 2: %s\n"+
			"Final Score: %d-%d\n"+
			"Winner: %s\n"+
			"Be creative, enthusiastic, and mention the score. Don't use placeholder text.",
		req.Player1Name, req.Player2Name,
		req.Player1Score, req.Player2Score,
		req.WinnerName,
	)
}
