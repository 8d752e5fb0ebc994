package footballdata

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/domain/records"
	"github.com/zonera/scoreboard-service/internal/logging"
	"github.com/zonera/scoreboard-service/internal/normalize"
	"github.com/zonera/scoreboard-service/internal/providers"
)

const (
	defaultBaseURL = "https://api.football-data.org/v4"
	headerToken    = "X-Auth-Token"
)

// Config controls how the football-data.org client reaches the upstream API.
type Config struct {
	BaseURL    string
	Token      string
	HTTPClient providers.HTTPDoer
	Logger     *slog.Logger
}

// Client fetches the football-data.org matches feed.
type Client struct {
	baseURL    string
	token      string
	httpClient providers.HTTPDoer
	logger     *slog.Logger
}

func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    providers.NormalizeBaseURL(cfg.BaseURL, defaultBaseURL),
		token:      cfg.Token,
		httpClient: providers.ResolveHTTPClient(cfg.HTTPClient),
		logger:     cfg.Logger,
	}
}

func (c *Client) Source() matches.Source { return matches.SourceFootballData }

// Fetch retrieves the current matches list and normalizes it.
func (c *Client) Fetch(ctx context.Context) ([]matches.Match, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/matches", nil)
	if err != nil {
		return nil, providers.FetchFailure(matches.SourceFootballData, err, "build request")
	}
	req.Header.Set(headerToken, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, providers.FetchFailure(matches.SourceFootballData, err, "get matches")
	}
	if err := providers.CheckResponse(matches.SourceFootballData, resp); err != nil {
		return nil, providers.FetchFailure(matches.SourceFootballData, err, "get matches")
	}
	defer resp.Body.Close()

	var payload records.FootballDataEnvelope
	if err := providers.DecodeJSON(resp.Body, &payload); err != nil {
		return nil, providers.FetchFailure(matches.SourceFootballData, err, "decode matches")
	}

	logging.Debug(logging.FromContext(ctx, c.logger), "footballdata matches fetched",
		slog.Int(logging.FieldCount, len(payload.Matches)),
	)
	return normalize.All(payload.Matches), nil
}
