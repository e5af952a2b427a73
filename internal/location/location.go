// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package location resolves the user's approximate position. Without a
// GPS, the terminal client falls back to IP geolocation; a config
// override pins the display instead.
package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Position is a resolved location.
type Position struct {
	Latitude  float64
	Longitude float64
	City      string
	Region    string
	Country   string
	Source    string // "override" or "ip"
}

// Place returns the human-readable place name, most specific first.
func (p *Position) Place() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.City, p.Region, p.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "Unknown location"
	}
	return strings.Join(parts, ", ")
}

// Coordinates returns "lat, lon" formatted for display.
func (p *Position) Coordinates() string {
	return fmt.Sprintf("%.4f, %.4f", p.Latitude, p.Longitude)
}

// =============================================================================
// RESOLVER
// =============================================================================

// ipAPIResponse is the ip-api.com JSON shape.
type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
	Region  string  `json:"regionName"`
	Country string  `json:"country"`
}

// Resolver looks up the current position.
type Resolver struct {
	lookupURL  string
	override   string
	httpClient *http.Client
}

// NewResolver creates a resolver. An empty override enables the IP
// lookup; a non-empty override of the form "lat,lon[,place]" pins the
// result without any network call.
func NewResolver(lookupURL, override string) *Resolver {
	return &Resolver{
		lookupURL: lookupURL,
		override:  override,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Resolve returns the current position.
func (r *Resolver) Resolve(ctx context.Context) (*Position, error) {
	if r.override != "" {
		return parseOverride(r.override)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("location lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("location lookup failed: %s", resp.Status)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse lookup response: %w", err)
	}
	if result.Status != "success" {
		msg := result.Message
		if msg == "" {
			msg = "lookup rejected"
		}
		return nil, fmt.Errorf("location lookup failed: %s", msg)
	}

	return &Position{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Region:    result.Region,
		Country:   result.Country,
		Source:    "ip",
	}, nil
}

// parseOverride parses "lat,lon" or "lat,lon,place".
func parseOverride(s string) (*Position, error) {
	parts := strings.SplitN(s, ",", 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid location override %q: want \"lat,lon[,place]\"", s)
	}

	var lat, lon float64
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[0]), "%f", &lat); err != nil {
		return nil, fmt.Errorf("invalid latitude in override %q", s)
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[1]), "%f", &lon); err != nil {
		return nil, fmt.Errorf("invalid longitude in override %q", s)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("override coordinates out of range: %q", s)
	}

	pos := &Position{Latitude: lat, Longitude: lon, Source: "override"}
	if len(parts) == 3 {
		pos.City = strings.TrimSpace(parts[2])
	}
	return pos, nil
}
