package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/zonera/scoreboard-service/internal/config"
	"github.com/zonera/scoreboard-service/internal/logging"
	"github.com/zonera/scoreboard-service/internal/metrics"
	"github.com/zonera/scoreboard-service/internal/providers"
	"github.com/zonera/scoreboard-service/internal/providers/apisports"
	"github.com/zonera/scoreboard-service/internal/providers/customstore"
	"github.com/zonera/scoreboard-service/internal/providers/fixture"
	"github.com/zonera/scoreboard-service/internal/providers/footballdata"
)

// watcher pushes custom-store changes; *customstore.Store satisfies it.
type watcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// fetcherSet is what the factory hands the server: the decorated fetchers
// in merge order plus the raw custom store for change notifications.
type fetcherSet struct {
	fetchers []providers.Fetcher
	watcher  watcher
}

// fetcherFactory assembles each source with the shared wrappers. The timeout
// sits inside the retry decorator so every attempt gets its own deadline.
type fetcherFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	// retryBase is the first backoff delay; zero uses the decorator default.
	retryBase time.Duration

	newFirestore func(ctx context.Context, projectID, credentialsFile string) (customstore.DocumentSource, error)
}

func newFetcherFactory(logger *slog.Logger, recorder *metrics.Recorder) fetcherFactory {
	return fetcherFactory{
		logger:  logger,
		metrics: recorder,
		newFirestore: func(ctx context.Context, projectID, credentialsFile string) (customstore.DocumentSource, error) {
			return customstore.NewFirestoreSource(ctx, projectID, credentialsFile)
		},
	}
}

func (f fetcherFactory) build(ctx context.Context, cfg config.Config) (fetcherSet, error) {
	var set fetcherSet
	client := providers.NewHTTPClient(cfg.SourceTimeout)

	custom, err := f.customStore(ctx, cfg)
	if err != nil {
		return fetcherSet{}, err
	}
	if custom != nil {
		set.fetchers = append(set.fetchers, f.wrap(cfg, custom))
		if cfg.CustomStore.Watch {
			set.watcher = custom
		}
	}

	if apiA := f.apiSports(cfg, client); apiA != nil {
		set.fetchers = append(set.fetchers, f.wrap(cfg, apiA))
	}
	if apiB := f.footballData(cfg, client); apiB != nil {
		set.fetchers = append(set.fetchers, f.wrap(cfg, apiB))
	}

	names := make([]string, 0, len(set.fetchers))
	for _, fe := range set.fetchers {
		names = append(names, string(fe.Source()))
	}
	logging.Info(f.logger, "sources configured", slog.Any("sources", names))
	return set, nil
}

func (f fetcherFactory) wrap(cfg config.Config, inner providers.Fetcher) providers.Fetcher {
	bounded := providers.NewTimeoutFetcher(inner, cfg.SourceTimeout)
	return providers.NewRetryingFetcher(bounded, f.logger, f.metrics, cfg.SourceRetries, f.retryBase)
}

func (f fetcherFactory) customStore(ctx context.Context, cfg config.Config) (*customstore.Store, error) {
	switch cfg.CustomStore.Backend {
	case config.BackendNone:
		logging.Info(f.logger, "custom store disabled")
		return nil, nil
	case config.BackendFirestore:
		docs, err := f.newFirestore(ctx, cfg.CustomStore.ProjectID, cfg.CustomStore.CredentialsFile)
		if err != nil {
			return nil, errors.Wrap(err, "custom store")
		}
		return customstore.NewStore(docs, f.logger), nil
	default:
		return customstore.NewStore(fixture.New(), f.logger), nil
	}
}

func (f fetcherFactory) apiSports(cfg config.Config, client *http.Client) providers.Fetcher {
	if !cfg.APISports.Active() {
		if cfg.APISports.Enabled {
			logging.Warn(f.logger, "api-sports disabled: no api key configured")
		}
		return nil
	}
	c, err := apisports.NewClient(apisports.Config{
		BaseURL:    cfg.APISports.BaseURL,
		APIKey:     cfg.APISports.APIKey,
		Host:       cfg.APISports.Host,
		HTTPClient: client,
		Logger:     f.logger,
	})
	if err != nil {
		logging.Error(f.logger, "api-sports client unavailable", err)
		return nil
	}
	return c
}

func (f fetcherFactory) footballData(cfg config.Config, client *http.Client) providers.Fetcher {
	if !cfg.FootballData.Active() {
		if cfg.FootballData.Enabled {
			logging.Warn(f.logger, "football-data disabled: no token configured")
		}
		return nil
	}
	return footballdata.NewClient(footballdata.Config{
		BaseURL:    cfg.FootballData.BaseURL,
		Token:      cfg.FootballData.Token,
		HTTPClient: client,
		Logger:     f.logger,
	})
}

// BuildFetchers assembles the configured sources in merge order without
// starting a server. Callers close them with providers.Close.
func BuildFetchers(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) ([]providers.Fetcher, error) {
	set, err := newFetcherFactory(logger, recorder).build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return set.fetchers, nil
}
