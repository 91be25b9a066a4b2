package scribble

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/sketchgame/internal/model"
)

// Request is the payload sent to the classifier
type Request struct {
	Word    string         `json:"word"`
	Strokes []model.Stroke `json:"strokes"`
}

// Verdict is the classifier's recommendation
type Verdict struct {
	ShouldSkip bool   `json:"should_skip"`
	Reason     string `json:"reason"`
}

// Classifier judges whether a drawing is a scribble that deserves a skip vote.
// Implementations may be slow and may fail.
type Classifier interface {
	Check(ctx context.Context, req Request) (Verdict, error)
}

// Disabled is used when no classifier is configured
type Disabled struct{}

// Check always fails with ErrClassifierUnavailable
func (Disabled) Check(context.Context, Request) (Verdict, error) {
	return Verdict{}, model.ErrClassifierUnavailable
}

// Client calls a remote classifier over HTTP
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a classifier client posting to url
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: strings.TrimSuffix(url, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With(slog.String("component", "scribble")),
	}
}

// Check posts the drawing to the classifier. Every failure is wrapped in
// model.ErrClassifierUnavailable.
func (c *Client) Check(ctx context.Context, req Request) (Verdict, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: marshal request: %w", model.ErrClassifierUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: create request: %w", model.ErrClassifierUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %w", model.ErrClassifierUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: read response: %w", model.ErrClassifierUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Verdict{}, fmt.Errorf("%w: HTTP %d", model.ErrClassifierUnavailable, resp.StatusCode)
	}

	var verdict Verdict
	if err := json.Unmarshal(respBody, &verdict); err != nil {
		return Verdict{}, fmt.Errorf("%w: parse response: %w", model.ErrClassifierUnavailable, err)
	}

	c.logger.Debug("scribble check complete",
		slog.Int("strokes", len(req.Strokes)),
		slog.Bool("should_skip", verdict.ShouldSkip),
		slog.Duration("duration", time.Since(start)))
	return verdict, nil
}
