package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/zonera/scoreboard-service/internal/app/scoreboard"
	"github.com/zonera/scoreboard-service/internal/config"
	httpserver "github.com/zonera/scoreboard-service/internal/http"
	"github.com/zonera/scoreboard-service/internal/http/handlers"
	"github.com/zonera/scoreboard-service/internal/hub"
	"github.com/zonera/scoreboard-service/internal/logging"
	"github.com/zonera/scoreboard-service/internal/metrics"
	"github.com/zonera/scoreboard-service/internal/poller"
	"github.com/zonera/scoreboard-service/internal/providers"
	"github.com/zonera/scoreboard-service/internal/publisher"
	"github.com/zonera/scoreboard-service/internal/store"
	"github.com/zonera/scoreboard-service/internal/timeutil"
)

var (
	metricsSetup = metrics.Setup
	dialRedis    = func(ctx context.Context, url string) (publisher.StreamAdder, error) {
		return publisher.Dial(ctx, url)
	}
)

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	service       *scoreboard.Service
	hub           *hub.Hub
	publisher     *publisher.StreamPublisher
	fetchers      []providers.Fetcher
	watcher       watcher
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	metricsStop   func(context.Context) error
}

// New constructs a server with the configured sources, sinks and routes.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, nil)
	set, err := newFetcherFactory(logger, recorder).build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	srv := newServerWithFetchers(ctx, cfg, logger, recorder, set)
	srv.metricsServer = metricsSrv
	srv.metricsStop = metricsShutdown
	return srv, nil
}

func newServerWithFetchers(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, set fetcherSet) *Server {
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	loc := timeutil.ResolveLocation(cfg.Timezone)
	if loc == nil {
		logging.Warn(logger, "unknown timezone, using UTC", slog.String("timezone", cfg.Timezone))
		loc = time.UTC
	}

	memoryStore := store.NewMemoryStore()
	svc := scoreboard.NewService(memoryStore, loc)
	wsHub := hub.New(logger, recorder, cfg.CORSAllowedOrigins...)
	pub := buildPublisher(ctx, cfg, logger, recorder)

	sinks := []poller.Sink{svc, wsHub}
	if pub != nil {
		sinks = append(sinks, pub)
	}
	plr := poller.New(set.fetchers, logger, recorder, cfg.PollInterval, sinks...)

	handler := handlers.NewHandler(svc, logger, plr.Status)
	admin := handlers.NewAdminHandler(plr.Trigger, cfg.AdminToken, logger)
	router := httpserver.NewRouter(httpserver.RouterDeps{
		Handler:     handler,
		Admin:       admin,
		WS:          wsHub,
		Logger:      logger,
		Metrics:     recorder,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})

	return &Server{
		cfg:        cfg,
		logger:     logger,
		metrics:    recorder,
		store:      memoryStore,
		service:    svc,
		hub:        wsHub,
		publisher:  pub,
		fetchers:   set.fetchers,
		watcher:    set.watcher,
		httpServer: buildHTTPServer(cfg, router),
		poller:     plr,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		poller:     plr,
	}
}

func buildHTTPServer(cfg config.Config, handler http.Handler) httpServer {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return netHTTPServer{srv: srv}
}

// buildPublisher dials Redis when a URL is configured. A failed dial only
// disables the stream.
func buildPublisher(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) *publisher.StreamPublisher {
	if cfg.Redis.URL == "" {
		return nil
	}
	client, err := dialRedis(ctx, cfg.Redis.URL)
	if err != nil {
		logging.Warn(logger, "redis unavailable, stream publishing disabled", "err", err)
		return nil
	}
	logging.Info(logger, "publishing updates to redis stream", slog.String("stream", cfg.Redis.Stream))
	return publisher.New(client, cfg.Redis.Stream, logger, recorder)
}

// Run starts the poller and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)
	s.startWatch(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "err", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "err", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop poller", err)
	}

	if s.hub != nil {
		_ = s.hub.Close()
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	for _, f := range s.fetchers {
		if err := providers.Close(f); err != nil {
			logging.Warn(s.logger, "source close failed", slog.String("source", string(f.Source())), "err", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			logging.Warn(s.logger, "redis close failed", "err", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, name+" server starting", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn(logger, name+" server failed", "err", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
