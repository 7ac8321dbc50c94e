// Package llm talks to the external text-generation collaborator. The
// engine never depends on it succeeding: every failure path degrades to the
// heuristic forecast.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dynastywire/narrative-api/internal/logic"
)

const maxReplyBytes = 1 << 20

// generateRequest is the wire contract with the collaborator
type generateRequest struct {
	Persona     string `json:"persona"`
	SectionType string `json:"section_type"`
	Context     string `json:"context"`
	Constraints string `json:"constraints"`
	MaxTokens   int    `json:"max_tokens"`
}

type Client struct {
	url     string
	http    *http.Client
	logger  *zap.SugaredLogger
	timeout time.Duration
}

func NewClient(url string, timeout time.Duration, logger *zap.SugaredLogger) *Client {
	return &Client{
		url:     url,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		timeout: timeout,
	}
}

// ProposePicks asks the collaborator for one pick per matchup. The reply may
// be the structured JSON contract or legacy pick lines; both are parsed, and
// anything unparseable is simply dropped so the caller falls back per
// matchup.
func (c *Client) ProposePicks(ctx context.Context, persona, contextStr string, matchups []logic.UpcomingMatchup) ([]logic.PickProposal, error) {
	constraints := fmt.Sprintf(
		"Reply with a JSON array of {team1, team2, pick, confidence, reason}, one entry per matchup (%d matchups). Confidence is low, medium or high.",
		len(matchups))

	body, err := json.Marshal(generateRequest{
		Persona:     persona,
		SectionType: "weekly_picks",
		Context:     contextStr,
		Constraints: constraints,
		MaxTokens:   120 * len(matchups),
	})
	if err != nil {
		return nil, fmt.Errorf("encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("text generation call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("text generation returned status %d", resp.StatusCode)
	}

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("read generation reply: %w", err)
	}

	proposals := ParseReply(string(reply))
	c.logger.Infow("Parsed generation reply", "persona", persona, "matchups", len(matchups), "proposals", len(proposals))
	return proposals, nil
}
