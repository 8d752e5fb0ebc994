package apisports

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/domain/records"
	"github.com/zonera/scoreboard-service/internal/logging"
	"github.com/zonera/scoreboard-service/internal/normalize"
	"github.com/zonera/scoreboard-service/internal/providers"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	defaultHost    = "v3.football.api-sports.io"
	headerKey      = "x-apisports-key"
	headerHost     = "x-rapidapi-host"
)

// Config controls how the api-sports client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	Host       string
	HTTPClient providers.HTTPDoer
	Logger     *slog.Logger
}

// endpoint is one of the three fixture queries. Results are concatenated in
// declaration order.
type endpoint struct {
	name  string
	param string
	value string
}

var endpoints = []endpoint{
	{name: "live", param: "live", value: "all"},
	{name: "finished", param: "status", value: "FT"},
	{name: "upcoming", param: "status", value: "NS"},
}

// Client fetches fixtures from api-sports and normalizes them.
type Client struct {
	baseURL    string
	apiKey     string
	host       string
	httpClient providers.HTTPDoer
	pool       *ants.Pool
	logger     *slog.Logger
}

// NewClient constructs a client with a worker pool sized to the endpoint set.
func NewClient(cfg Config) (*Client, error) {
	pool, err := ants.NewPool(len(endpoints))
	if err != nil {
		return nil, errors.Wrap(err, "apisports: worker pool")
	}
	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	return &Client{
		baseURL:    providers.NormalizeBaseURL(cfg.BaseURL, defaultBaseURL),
		apiKey:     cfg.APIKey,
		host:       host,
		httpClient: providers.ResolveHTTPClient(cfg.HTTPClient),
		pool:       pool,
		logger:     cfg.Logger,
	}, nil
}

func (c *Client) Source() matches.Source { return matches.SourceAPISports }

// Fetch queries the live, finished and upcoming endpoints concurrently. A
// failing endpoint contributes nothing; Fetch only fails when all of them do.
func (c *Client) Fetch(ctx context.Context) ([]matches.Match, error) {
	results := make([][]records.APISportsFixture, len(endpoints))
	errs := make([]error, len(endpoints))

	var wg sync.WaitGroup
	for i, ep := range endpoints {
		wg.Add(1)
		submitErr := c.pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = c.fetchEndpoint(ctx, ep)
		})
		if submitErr != nil {
			errs[i] = submitErr
			wg.Done()
		}
	}
	wg.Wait()

	var (
		fixtures []records.APISportsFixture
		failed   error
		failures int
	)
	for i, ep := range endpoints {
		if errs[i] != nil {
			failures++
			failed = errors.CombineErrors(failed, errs[i])
			logging.Warn(logging.FromContext(ctx, c.logger), "apisports endpoint failed",
				slog.String(logging.FieldEndpoint, ep.name),
				slog.Any("error", errs[i]),
			)
			continue
		}
		fixtures = append(fixtures, results[i]...)
	}
	if failures == len(endpoints) {
		return nil, failed
	}
	return normalize.All(fixtures), nil
}

func (c *Client) fetchEndpoint(ctx context.Context, ep endpoint) ([]records.APISportsFixture, error) {
	req, err := c.buildRequest(ctx, ep)
	if err != nil {
		return nil, providers.FetchFailure(matches.SourceAPISports, err, "build request "+ep.name)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, providers.FetchFailure(matches.SourceAPISports, err, "get "+ep.name)
	}
	if err := providers.CheckResponse(matches.SourceAPISports, resp); err != nil {
		return nil, providers.FetchFailure(matches.SourceAPISports, err, "get "+ep.name)
	}
	defer resp.Body.Close()

	var payload records.APISportsEnvelope
	if err := providers.DecodeJSON(resp.Body, &payload); err != nil {
		return nil, providers.FetchFailure(matches.SourceAPISports, err, "decode "+ep.name)
	}
	return payload.Response, nil
}

func (c *Client) buildRequest(ctx context.Context, ep endpoint) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/fixtures", nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set(ep.param, ep.value)
	req.URL.RawQuery = q.Encode()

	req.Header.Set(headerKey, c.apiKey)
	req.Header.Set(headerHost, c.host)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Close releases the worker pool.
func (c *Client) Close() error {
	if c.pool != nil {
		c.pool.Release()
	}
	return nil
}
