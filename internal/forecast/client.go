package forecast

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://api.met.no/weatherapi/locationforecast/2.0/complete.json"
	DefaultUserAgent = "forecast-to-clothing/1.0"
)

// Client fetches hourly forecasts from the met.no Locationforecast API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL, userAgent string, timeout time.Duration, logger *slog.Logger) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	ua := strings.TrimSpace(userAgent)
	if ua == "" {
		ua = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   base,
		userAgent: ua,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("component", "forecast.client"),
	}
}

// Fetch retrieves the forecast for the given coordinates. met.no rejects
// requests without an identifying User-Agent.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*Forecast, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	endpoint := c.baseURL + sep + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build forecast request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Info("fetching forecast", "lat", lat, "lon", lon)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("forecast request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	fc, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Info("forecast fetched", "samples", len(fc.Samples), "updated_at", fc.UpdatedAt)
	return fc, nil
}
