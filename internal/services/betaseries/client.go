package betaseries

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Thilas/plex-betaseries-webhook/internal/config"
	"github.com/sirupsen/logrus"
)

// Client handles communication with the BetaSeries API
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new BetaSeries API client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.BetaSeries.TimeoutSeconds) * time.Second},
		logger:     logger,
	}
}

// apiError is one machine-readable error entry from a BetaSeries error body
type apiError struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

// doRequest performs an HTTP request to the BetaSeries API on behalf of one
// client configuration, optionally authenticated with an access token
func (c *Client) doRequest(ctx context.Context, client *config.ClientConfig, accessToken, method, path string, params url.Values, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	fullURL := c.cfg.BetaSeries.APIURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}
	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    fullURL,
	}).Debug("Making BetaSeries API request")

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-BetaSeries-Version", c.cfg.BetaSeries.APIVersion)
	req.Header.Set("X-BetaSeries-Key", client.ClientID)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	// Perform request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Check status code
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return errors.New(formatAPIError(resp.StatusCode, bodyBytes))
	}

	// Parse response
	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// formatAPIError appends every structured BetaSeries error entry to the
// transport error message. The remote error codes are otherwise opaque to
// operators.
func formatAPIError(statusCode int, body []byte) string {
	message := fmt.Sprintf("API request failed with status %d", statusCode)

	var response struct {
		Errors []apiError `json:"errors"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return message
	}
	for _, e := range response.Errors {
		if e.Text == "" {
			continue
		}
		message += fmt.Sprintf("\n- [%d] %s", e.Code, e.Text)
	}

	return message
}
