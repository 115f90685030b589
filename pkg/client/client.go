// Package client is a small typed client for the ecosim server API, with a
// fluent builder for scenario configs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/daniacca/ecosim/internal/eco"
)

// ScenarioBuilder provides a fluent API for building simulation configs.
type ScenarioBuilder struct {
	cfg eco.Config
}

// NewScenario creates a scenario builder on top of the default config.
func NewScenario(name string) *ScenarioBuilder {
	cfg := eco.DefaultConfig()
	cfg.Name = name
	return &ScenarioBuilder{cfg: cfg}
}

// Size sets the grid dimensions.
func (sb *ScenarioBuilder) Size(width, height int) *ScenarioBuilder {
	sb.cfg.Width = width
	sb.cfg.Height = height
	return sb
}

// Populations sets the initial organism counts.
func (sb *ScenarioBuilder) Populations(plants, herbivores, carnivores int) *ScenarioBuilder {
	sb.cfg.Plants = plants
	sb.cfg.Herbivores = herbivores
	sb.cfg.Carnivores = carnivores
	return sb
}

// Ticks sets the simulation tick budget.
func (sb *ScenarioBuilder) Ticks(ticks int) *ScenarioBuilder {
	sb.cfg.Ticks = ticks
	return sb
}

// Seed fixes the random seed so the run is reproducible.
func (sb *ScenarioBuilder) Seed(seed int64) *ScenarioBuilder {
	sb.cfg.Seed = seed
	return sb
}

// TickDelay sets the delay between rendered ticks in milliseconds.
func (sb *ScenarioBuilder) TickDelay(ms int) *ScenarioBuilder {
	sb.cfg.TickDelayMS = ms
	return sb
}

// Override applies per-species parameter overrides.
func (sb *ScenarioBuilder) Override(species eco.Species, ov eco.SpeciesOverride) *ScenarioBuilder {
	if sb.cfg.Species == nil {
		sb.cfg.Species = make(map[string]eco.SpeciesOverride)
	}
	sb.cfg.Species[string(species)] = ov
	return sb
}

// Build returns the assembled config.
func (sb *ScenarioBuilder) Build() eco.Config {
	return sb.cfg
}

// Client talks to an ecosim server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL
// (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// SetHTTPClient replaces the underlying HTTP client, e.g. to set timeouts.
func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.httpClient = hc
	}
}

// CreateWorld creates a world under the given ID from a config.
func (c *Client) CreateWorld(ctx context.Context, id string, cfg eco.Config) error {
	body, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return c.do(ctx, http.MethodPost, []string{"world", id}, nil, body, nil)
}

// DeleteWorld stops and removes a world.
func (c *Client) DeleteWorld(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, []string{"world", id}, nil, nil, nil)
}

// TickWorld advances a world one tick and returns the new snapshot.
func (c *Client) TickWorld(ctx context.Context, id string) (eco.Snapshot, error) {
	var snap eco.Snapshot
	err := c.do(ctx, http.MethodPost, []string{"world", id, "tick"}, nil, nil, &snap)
	return snap, err
}

// StartWorld begins auto-running a world. A positive intervalMS overrides
// the server's default tick interval.
func (c *Client) StartWorld(ctx context.Context, id string, intervalMS int) error {
	var query url.Values
	if intervalMS > 0 {
		query = url.Values{"interval": []string{strconv.Itoa(intervalMS)}}
	}
	return c.do(ctx, http.MethodPost, []string{"world", id, "start"}, query, nil, nil)
}

// StopWorld halts a world's run loop.
func (c *Client) StopWorld(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, []string{"world", id, "stop"}, nil, nil, nil)
}

// Snapshot fetches a world's current snapshot.
func (c *Client) Snapshot(ctx context.Context, id string) (eco.Snapshot, error) {
	var snap eco.Snapshot
	err := c.do(ctx, http.MethodGet, []string{"world", id, "snapshot"}, nil, nil, &snap)
	return snap, err
}

// ListWorlds returns the IDs of all worlds on the server.
func (c *Client) ListWorlds(ctx context.Context) ([]string, error) {
	var out struct {
		Worlds []string `json:"worlds"`
	}
	if err := c.do(ctx, http.MethodGet, []string{"worlds"}, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Worlds, nil
}

// RegisterWebhookSink registers a webhook sink that receives every snapshot
// the server publishes.
func (c *Client) RegisterWebhookSink(ctx context.Context, id, webhookURL string, headers map[string]string) error {
	cfg := map[string]any{"url": webhookURL}
	if len(headers) > 0 {
		h := make(map[string]any, len(headers))
		for k, v := range headers {
			h[k] = v
		}
		cfg["headers"] = h
	}
	body, err := json.Marshal(map[string]any{
		"type":   "webhook",
		"id":     id,
		"config": cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sink request: %w", err)
	}
	return c.do(ctx, http.MethodPost, []string{"sinks"}, nil, body, nil)
}

// UnregisterSink removes a sink by ID.
func (c *Client) UnregisterSink(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, []string{"sinks", id}, nil, nil, nil)
}

// Health checks the server health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, []string{"healthz"}, nil, nil, nil)
}

// do issues one request and decodes a JSON response into out when out is
// non-nil.
func (c *Client) do(ctx context.Context, method string, pathSegments []string, query url.Values, body []byte, out any) error {
	u, err := url.JoinPath(c.baseURL, pathSegments...)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
