// Package canvas is the REST client for the Canvas LMS API. Every payload
// is decoded through a typed struct at the boundary and mapped into the
// shapes the sync pipeline consumes; nothing downstream touches raw JSON.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned when a call is attempted without a Canvas
// API key. Never retried; the operator has to supply CANVAS_API_KEY.
var ErrNotConfigured = errors.New("canvas: API key not configured")

// Hard safety caps on Link-header pagination.
const (
	maxStudentPages    = 50
	maxSubmissionPages = 10
)

var nextLinkRe = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// Config carries the Canvas connection settings.
type Config struct {
	BaseURL string
	APIKey  string
}

// Client talks to one Canvas instance with a bearer token.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

// NewClient builds a Canvas client. A missing API key is allowed at
// construction time so the server can boot and report its status; calls
// fail fast with ErrNotConfigured instead.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.APIKey == "" {
		log.Warn().Msg("Canvas API key not configured, sync operations will fail until CANVAS_API_KEY is set")
	} else {
		log.Info().Str("base_url", cfg.BaseURL).Msg("Canvas API configured")
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 60 * time.Second},
		log:  log,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.cfg.APIKey != "" }

// get issues one authenticated GET and returns the body plus the Link
// header for pagination.
func (c *Client) get(ctx context.Context, url string) ([]byte, string, error) {
	if !c.Configured() {
		return nil, "", ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("canvas: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("canvas: request %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warn().Err(cerr).Msg("Failed to close Canvas response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("canvas: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("url", url).
			Str("body", truncateForLog(string(body))).
			Msg("Canvas API error")
		return nil, "", fmt.Errorf("canvas: request failed: %d %s", resp.StatusCode, resp.Status)
	}
	return body, resp.Header.Get("Link"), nil
}

// nextPageURL pulls the rel="next" target out of a Link header, returning
// "" when there is no further page.
func nextPageURL(linkHeader string) string {
	m := nextLinkRe.FindStringSubmatch(linkHeader)
	if m == nil {
		return ""
	}
	return m[1]
}

// DownloadAttachment fetches the raw bytes of a submission attachment.
func (c *Client) DownloadAttachment(ctx context.Context, url string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("canvas: build attachment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("canvas: download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("canvas: attachment download failed: %d %s", resp.StatusCode, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func truncateForLog(s string) string {
	if len(s) > 512 {
		return s[:512] + "..."
	}
	return s
}
