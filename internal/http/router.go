package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zonera/scoreboard-service/internal/http/handlers"
	"github.com/zonera/scoreboard-service/internal/http/middleware"
	"github.com/zonera/scoreboard-service/internal/metrics"
)

// RouterDeps carries everything the router mounts. Admin and WS are optional.
type RouterDeps struct {
	Handler     *handlers.Handler
	Admin       *handlers.AdminHandler
	WS          nethttp.Handler
	Logger      *slog.Logger
	Metrics     *metrics.Recorder
	CORSOrigins []string
}

// NewRouter registers HTTP routes on a chi router.
func NewRouter(d RouterDeps) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logging(d.Logger, d.Metrics))
	r.Use(cors.Handler(corsOptions(d.CORSOrigins)))

	h := d.Handler
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Get("/dates", h.Dates)
	r.Route("/matches", func(r chi.Router) {
		r.Get("/", h.Matches)
		r.Get("/live", h.LiveMatches)
		r.Get("/{id}", h.MatchByID)
	})
	if d.WS != nil {
		r.Get("/ws", d.WS.ServeHTTP)
	}
	if d.Admin != nil {
		r.Post("/admin/refresh", d.Admin.Refresh)
	}

	return otelhttp.NewHandler(r, "scoreboard-http",
		otelhttp.WithFilter(func(req *nethttp.Request) bool { return req.URL.Path != "/ws" }),
	)
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}
}
