// Package ai is the gateway to the Anthropic messages API. All analysis
// operations go through one shared client whose calls are strictly
// serialized by a minimum inter-call cooldown, keeping the process under
// the API's effective rate limit no matter how many goroutines ask.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/MekhyW/Link-AutoJourney/internal/model"
)

// ErrNotConfigured is returned when an analysis is attempted without an
// API key. Surfaces synchronously and is never retried.
var ErrNotConfigured = errors.New("ai: ANTHROPIC_API_KEY is not configured")

// ErrBadReply wraps replies that are not the JSON object an operation
// asked for. Callers typically log it and leave the submission
// unanalyzed rather than aborting their batch.
var ErrBadReply = errors.New("ai: unexpected reply from model")

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 2048
	// defaultMaxContentLen bounds submission text embedded into prompts
	// so a long essay cannot blow the model's input budget.
	defaultMaxContentLen = 12000
	anthropicVersion     = "2023-06-01"
)

// Config carries the gateway settings.
type Config struct {
	APIKey        string
	Model         string
	BaseURL       string
	MaxTokens     int
	MinInterval   time.Duration
	MaxContentLen int
}

// Client is the shared AI gateway. One instance per process, injected
// into whoever needs analysis.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger

	// mu guards lastCall; the cooldown sleep happens while holding it so
	// concurrent callers queue up behind each other.
	mu       sync.Mutex
	lastCall time.Time
}

// NewClient builds the gateway, filling config defaults.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.MaxContentLen <= 0 {
		cfg.MaxContentLen = defaultMaxContentLen
	}
	if cfg.APIKey == "" {
		log.Warn().Msg("Anthropic API key not configured, analysis operations will fail until ANTHROPIC_API_KEY is set")
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 120 * time.Second},
		log:  log,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.cfg.APIKey != "" }

// throttle enforces the global cooldown: if the previous call finished
// less than MinInterval ago, sleep the remainder before proceeding.
func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.lastCall.IsZero() {
		if elapsed := time.Since(c.lastCall); elapsed < c.cfg.MinInterval {
			time.Sleep(c.cfg.MinInterval - elapsed)
		}
	}
	c.lastCall = time.Now()
}

// ----- anthropic wire shapes -----

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// createMessage performs one rate-limited call and returns the text of
// the first content block.
func (c *Client) createMessage(ctx context.Context, blocks []contentBlock) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	c.throttle()

	reqBody := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages:  []message{{Role: "user", Content: blocks}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: call Anthropic API: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warn().Err(cerr).Msg("Failed to close Anthropic response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ai: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: Anthropic API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}
	if len(parsed.Content) == 0 || parsed.Content[0].Type != "text" {
		return "", fmt.Errorf("%w: no text content block", ErrBadReply)
	}

	c.log.Debug().Dur("latency", time.Since(start)).Msg("Anthropic call completed")
	return parsed.Content[0].Text, nil
}

// AnalyzeTextSubmission analyzes a text submission against the
// assignment context and optional rubric.
func (c *Client) AnalyzeTextSubmission(ctx context.Context, content, assignmentContext string, rubric []model.RubricCriterion) (*model.SubmissionAnalysis, error) {
	prompt := buildSubmissionPrompt("a student's submission",
		Truncate(content, c.cfg.MaxContentLen), assignmentContext, rubric)
	return c.submissionCall(ctx, []contentBlock{{Type: "text", Text: prompt}})
}

// AnalyzeDocumentSubmission analyzes an extracted or raw document body.
func (c *Client) AnalyzeDocumentSubmission(ctx context.Context, content, assignmentContext string, rubric []model.RubricCriterion) (*model.SubmissionAnalysis, error) {
	prompt := buildSubmissionPrompt("a document submission",
		Truncate(content, c.cfg.MaxContentLen), assignmentContext, rubric)
	return c.submissionCall(ctx, []contentBlock{{Type: "text", Text: prompt}})
}

// AnalyzeMediaSubmission analyzes an image or video frame submission
// supplied as base64 bytes. The MIME type selects the prompt wording and
// travels with the image block.
func (c *Client) AnalyzeMediaSubmission(ctx context.Context, base64Data, mediaType, assignmentContext string, rubric []model.RubricCriterion) (*model.SubmissionAnalysis, error) {
	prompt := buildMediaPrompt(mediaType, assignmentContext, rubric)
	blocks := []contentBlock{
		{Type: "text", Text: prompt},
		{Type: "image", Source: &imageSource{
			Type:      "base64",
			MediaType: mediaType,
			Data:      base64Data,
		}},
	}
	return c.submissionCall(ctx, blocks)
}

func (c *Client) submissionCall(ctx context.Context, blocks []contentBlock) (*model.SubmissionAnalysis, error) {
	reply, err := c.createMessage(ctx, blocks)
	if err != nil {
		return nil, err
	}

	var analysis model.SubmissionAnalysis
	if err := json.Unmarshal([]byte(cleanJSONReply(reply)), &analysis); err != nil {
		return nil, fmt.Errorf("%w: parse submission analysis: %v", ErrBadReply, err)
	}
	if analysis.Summary == "" {
		return nil, fmt.Errorf("%w: submission analysis missing summary", ErrBadReply)
	}
	return &analysis, nil
}

// SubmissionRecord is one entry of a candidate's analysis history fed
// into insight generation.
type SubmissionRecord struct {
	AssignmentName string   `json:"assignment"`
	Score          float64  `json:"score"`
	Summary        string   `json:"summary"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	Skills         []string `json:"skills"`
}

// GenerateCandidateInsights folds a candidate's full per-submission
// analysis history into an aggregate interview-readiness assessment.
func (c *Client) GenerateCandidateInsights(ctx context.Context, history []SubmissionRecord) (*model.CandidateInsights, error) {
	prompt, err := buildInsightsPrompt(history)
	if err != nil {
		return nil, err
	}

	reply, err := c.createMessage(ctx, []contentBlock{{Type: "text", Text: prompt}})
	if err != nil {
		return nil, err
	}

	var insights model.CandidateInsights
	if err := json.Unmarshal([]byte(cleanJSONReply(reply)), &insights); err != nil {
		return nil, fmt.Errorf("%w: parse candidate insights: %v", ErrBadReply, err)
	}
	if !model.ValidStatus(insights.ReadinessLevel) {
		return nil, fmt.Errorf("%w: readiness level %q", ErrBadReply, insights.ReadinessLevel)
	}
	return &insights, nil
}
