// Package pushover sends notifications through the Pushover messages API.
package pushover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultURL = "https://api.pushover.net/1/messages.json"

var ErrMissingCredentials = errors.New("pushover app token or user key missing")

type Client struct {
	url        string
	appToken   string
	userKey    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(appToken, userKey, endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:        endpoint,
		appToken:   strings.TrimSpace(appToken),
		userKey:    strings.TrimSpace(userKey),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "pushover"),
	}
}

// Notify posts message with title. Only a 200 response counts as sent.
func (c *Client) Notify(ctx context.Context, title, message string) error {
	if c.appToken == "" || c.userKey == "" {
		c.logger.Error("pushover credentials missing")
		return ErrMissingCredentials
	}

	form := url.Values{}
	form.Set("token", c.appToken)
	form.Set("user", c.userKey)
	form.Set("message", message)
	form.Set("title", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("could not send notification", "error", err)
		return fmt.Errorf("pushover request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.logger.Error("could not send notification", "status", resp.StatusCode)
		return fmt.Errorf("pushover request error: status=%d body=%s", resp.StatusCode, string(body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Info("notification sent")
	return nil
}
