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
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/pathguard/pathguard/internal/geo"
	"github.com/pathguard/pathguard/internal/logging"
	"github.com/pathguard/pathguard/internal/metrics"
)

// DefaultOverpassURL is the public Overpass API interpreter endpoint.
const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// accessibilityCapKm caps amenity distances: anything at or beyond 50 km
// contributes a fully-inaccessible 1.0 for its amenity.
const accessibilityCapKm = 50.0

// amenitySearchRadiusM is the Overpass around-radius per amenity query.
const amenitySearchRadiusM = 10000

// amenityQuery is one weighted nearest-amenity lookup.
type amenityQuery struct {
	name   string
	filter string // Overpass tag filter, e.g. ["amenity"="hospital"]
	weight float64
}

// amenityQueries lists the amenities blended into the accessibility score.
// Roads and hospitals carry the most weight; convenience amenities act as
// proxies for general habitation. Weights sum to 1.
var amenityQueries = []amenityQuery{
	{name: "road", filter: `["highway"]`, weight: 0.2},
	{name: "hospital", filter: `["amenity"="hospital"]`, weight: 0.2},
	{name: "police", filter: `["amenity"="police"]`, weight: 0.15},
	{name: "fuel", filter: `["amenity"="fuel"]`, weight: 0.15},
	{name: "atm", filter: `["amenity"="atm"]`, weight: 0.1},
	{name: "pharmacy", filter: `["amenity"="pharmacy"]`, weight: 0.1},
	{name: "hotel", filter: `["tourism"="hotel"]`, weight: 0.1},
}

// overpassElement is the subset of an Overpass response element we need.
// Ways and relations report their coordinate under center.
type overpassElement struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// OverpassClient queries the Overpass API for nearest-amenity distances
// and folds them into the normalized accessibility component.
//
// The public Overpass instance enforces a fair-use policy, so requests are
// paced by a rate limiter, and the whole client sits behind a circuit
// breaker: once the API misbehaves repeatedly, lookups fail fast and the
// calculator falls back to the neutral default instead of queueing on a
// dead upstream.
type OverpassClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[float64]
}

// NewOverpassClient creates a rate-limited, circuit-broken Overpass
// accessibility provider. An empty baseURL selects the public endpoint.
func NewOverpassClient(baseURL string, timeout time.Duration, requestsPerSecond float64) *OverpassClient {
	if baseURL == "" {
		baseURL = DefaultOverpassURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}

	return &OverpassClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		breaker:    newProviderBreaker("overpass"),
	}
}

// newProviderBreaker builds the shared breaker configuration for external
// providers, wired into metrics and logging.
func newProviderBreaker(name string) *gobreaker.CircuitBreaker[float64] {
	return gobreaker.NewCircuitBreaker[float64](gobreaker.Settings{
		Name:    name,
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerTransitions.WithLabelValues(name, to.String()).Inc()
			logging.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("provider circuit breaker state change")
		},
	})
}

// AccessibilityScore implements AccessibilityProvider. Each amenity whose
// lookup fails degrades to the 50 km cap for that amenity alone; the call
// errors only when every lookup failed, letting the calculator substitute
// the neutral default.
func (c *OverpassClient) AccessibilityScore(ctx context.Context, lat, lon float64) (float64, error) {
	score, err := c.breaker.Execute(func() (float64, error) {
		return c.accessibilityScore(ctx, lat, lon)
	})
	if err != nil {
		return 0, fmt.Errorf("overpass accessibility: %w", err)
	}
	return score, nil
}

func (c *OverpassClient) accessibilityScore(ctx context.Context, lat, lon float64) (float64, error) {
	score := 0.0
	failures := 0
	for _, q := range amenityQueries {
		distKm, err := c.nearestDistanceKm(ctx, lat, lon, q.filter)
		if err != nil {
			failures++
			logging.Debug().Err(err).Str("amenity", q.name).Msg("amenity lookup failed, capping distance")
			distKm = accessibilityCapKm
		}
		normalized := distKm / accessibilityCapKm
		if normalized > 1 {
			normalized = 1
		}
		score += q.weight * normalized
	}
	if failures == len(amenityQueries) {
		return 0, fmt.Errorf("all %d amenity lookups failed", failures)
	}
	return roundTo3(score), nil
}

// nearestDistanceKm queries one amenity filter and returns the haversine
// distance to the closest returned element.
func (c *OverpassClient) nearestDistanceKm(ctx context.Context, lat, lon float64, filter string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`[out:json][timeout:25];
(
  node%[1]s(around:%[2]d,%[3]f,%[4]f);
  way%[1]s(around:%[2]d,%[3]f,%[4]f);
  rel%[1]s(around:%[2]d,%[3]f,%[4]f);
);
out center 1;`, filter, amenitySearchRadiusM, lat, lon)

	start := time.Now()
	defer func() {
		metrics.ProviderRequestDuration.WithLabelValues("overpass").Observe(time.Since(start).Seconds())
	}()

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, err
	}

	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("decode overpass response: %w", err)
	}

	minDist := accessibilityCapKm
	found := false
	for _, el := range parsed.Elements {
		elLat, elLon := el.Lat, el.Lon
		if el.Center != nil {
			elLat, elLon = el.Center.Lat, el.Center.Lon
		}
		if elLat == 0 && elLon == 0 {
			continue
		}
		d := geo.Haversine(lat, lon, elLat, elLon)
		if !found || d < minDist {
			minDist = d
			found = true
		}
	}
	if !found {
		// Nothing within the search radius: treat as capped.
		return accessibilityCapKm, nil
	}
	return minDist, nil
}
