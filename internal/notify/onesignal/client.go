// Package onesignal sends push notifications to every subscriber of an app.
package onesignal

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

	"github.com/google/uuid"

	"resource_hub/internal/domain"
)

const (
	DefaultBaseURL = "https://onesignal.com/api/v1"
	allSegment     = "All"
	maxBodySize    = 1 << 20
)

// UpstreamError is a notification the provider refused.
type UpstreamError struct {
	StatusCode int
	// Errors is the provider's errors payload, verbatim. Empty when the
	// response carried none.
	Errors json.RawMessage
}

func (e *UpstreamError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("onesignal: status %d", e.StatusCode)
	}
	return fmt.Sprintf("onesignal: status %d: %s", e.StatusCode, e.Errors)
}

type Config struct {
	BaseURL    string
	AppID      string
	APIKey     string
	DefaultURL string
	Timeout    time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	apiKey     string
	defaultURL string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		appID:      cfg.AppID,
		apiKey:     cfg.APIKey,
		defaultURL: cfg.DefaultURL,
		logger:     logger.With("component", "onesignal"),
	}
}

// Send pushes n to the "All" segment. A notification without a URL opens
// the default URL.
func (c *Client) Send(ctx context.Context, n domain.Notification) (*domain.NotificationResult, error) {
	target := n.URL
	if target == "" {
		target = c.defaultURL
	}

	payload, err := json.Marshal(createRequest{
		AppID:            c.appID,
		IncludedSegments: []string{allSegment},
		Headings:         localized{En: n.Title},
		Contents:         localized{En: n.Message},
		URL:              target,
		ExternalID:       uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var data createResponse
	if err := json.Unmarshal(body, &data); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &UpstreamError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("notification rejected", "status", resp.StatusCode, "errors", string(data.Errors))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Errors: data.Errors}
	}

	c.logger.Info("notification sent", "id", data.ID, "recipients", data.Recipients)
	return &domain.NotificationResult{ID: data.ID, Recipients: data.Recipients}, nil
}
