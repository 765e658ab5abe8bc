package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/tools"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client queries the OpenWeatherMap current-weather API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a live weather client. baseURL may be empty to use the
// public OpenWeatherMap endpoint.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// owmResponse mirrors the fields we read from the OpenWeatherMap payload.
type owmResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current fetches the live weather for a city. Remote not-found maps to
// ErrCityNotFound; transport failures and other upstream statuses map to
// tools.Error values with NETWORK and UPSTREAM codes respectively.
func (c *Client) Current(ctx context.Context, city string) (*Report, error) {
	endpoint := fmt.Sprintf("%s/weather?q=%s&appid=%s&units=metric",
		c.baseURL, url.QueryEscape(city), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &tools.Error{Code: tools.ErrCodeNetwork,
			Message: fmt.Sprintf("weather request failed: %v", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, ErrCityNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &tools.Error{Code: tools.ErrCodeUpstream,
			Message: fmt.Sprintf("weather API returned %d: %s", resp.StatusCode, string(body))}
	}

	var payload owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &tools.Error{Code: tools.ErrCodeUpstream,
			Message: fmt.Sprintf("decoding weather response: %v", err)}
	}

	report := &Report{
		City:       payload.Name,
		TempC:      payload.Main.Temp,
		FeelsLikeC: payload.Main.FeelsLike,
		Humidity:   payload.Main.Humidity,
		WindSpeed:  payload.Wind.Speed,
	}
	if report.City == "" {
		report.City = city
	}
	if len(payload.Weather) > 0 {
		report.Description = payload.Weather[0].Description
	}
	return report, nil
}

// Cities returns nil: the live source can answer for any city.
func (c *Client) Cities() []string { return nil }
