// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package safety

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/pathguard/pathguard/internal/metrics"
	"github.com/sony/gobreaker/v2"
)

// DefaultMetNoURL is the met.no compact location forecast endpoint.
const DefaultMetNoURL = "https://api.met.no/weatherapi/locationforecast/2.0/compact"

// metNoUserAgent identifies us to met.no, whose terms of service require a
// contactable User-Agent.
const metNoUserAgent = "pathguard/1.0 github.com/pathguard/pathguard"

// MetNoClient maps the current-hour weather symbol from the met.no
// location forecast into the normalized environmental hazard component.
type MetNoClient struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[float64]
}

// NewMetNoClient creates a circuit-broken met.no hazard provider. An empty
// baseURL selects the public endpoint.
func NewMetNoClient(baseURL string, timeout time.Duration) *MetNoClient {
	if baseURL == "" {
		baseURL = DefaultMetNoURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MetNoClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		breaker:    newProviderBreaker("metno"),
	}
}

// forecastResponse is the subset of the met.no compact forecast we read.
type forecastResponse struct {
	Properties struct {
		Timeseries []struct {
			Data struct {
				Next1Hours struct {
					Summary struct {
						SymbolCode string `json:"symbol_code"`
					} `json:"summary"`
				} `json:"next_1_hours"`
			} `json:"data"`
		} `json:"timeseries"`
	} `json:"properties"`
}

// HazardScore implements HazardProvider.
func (c *MetNoClient) HazardScore(ctx context.Context, lat, lon float64) (float64, error) {
	score, err := c.breaker.Execute(func() (float64, error) {
		return c.hazardScore(ctx, lat, lon)
	})
	if err != nil {
		return 0, fmt.Errorf("metno hazard: %w", err)
	}
	return score, nil
}

func (c *MetNoClient) hazardScore(ctx context.Context, lat, lon float64) (float64, error) {
	start := time.Now()
	defer func() {
		metrics.ProviderRequestDuration.WithLabelValues("metno").Observe(time.Since(start).Seconds())
	}()

	reqURL := fmt.Sprintf("%s?lat=%f&lon=%f", c.baseURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", metNoUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("metno returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return 0, err
	}

	var parsed forecastResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("decode metno response: %w", err)
	}

	if len(parsed.Properties.Timeseries) == 0 {
		return NeutralHazard, nil
	}
	symbol := parsed.Properties.Timeseries[0].Data.Next1Hours.Summary.SymbolCode
	return hazardForSymbol(symbol), nil
}

// hazardForSymbol assigns a hazard score to a met.no symbol code. Order
// matters: the heavy variants must match before their plain substrings.
func hazardForSymbol(symbolCode string) float64 {
	code := strings.ToLower(symbolCode)

	switch {
	case containsAny(code, "thunderstorm", "tornado", "extreme", "cyclone"):
		return 0.95
	case containsAny(code, "heavyrain", "rainshowers_heavy"):
		return 0.8
	case containsAny(code, "rain", "showers"):
		return 0.6
	case containsAny(code, "heavysnow", "snow"):
		return 0.5
	case containsAny(code, "fog", "mist"):
		return 0.4
	case containsAny(code, "dust", "sand"):
		return 0.4
	case containsAny(code, "hot", "heatwave"):
		return 0.7
	case containsAny(code, "clearsky", "fair"):
		return 0.0
	default:
		return NeutralHazard
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
