package handlers

import (
	"log/slog"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"

	"github.com/zonera/scoreboard-service/internal/app/scoreboard"
	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/logging"
	"github.com/zonera/scoreboard-service/internal/poller"
	"github.com/zonera/scoreboard-service/internal/timeutil"
	"github.com/zonera/scoreboard-service/internal/view"
)

// Handler wires HTTP routes to the scoreboard service.
type Handler struct {
	svc      *scoreboard.Service
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. statusFn may be nil, in which case the
// service always reports ready.
func NewHandler(svc *scoreboard.Service, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, readyBody("ready", status), h.logger)
		return
	}
	body := readyBody("not ready", status)
	if status.LastError != "" {
		body["error"] = status.LastError
	}
	writeJSON(w, nethttp.StatusServiceUnavailable, body, h.logger)
}

func readyBody(state string, s poller.Status) map[string]any {
	body := map[string]any{
		"status": state,
		"cycles": s.Cycles,
	}
	if !s.LastSuccess.IsZero() {
		body["lastSuccess"] = s.LastSuccess.UTC().Format(time.RFC3339)
	}
	if len(s.SourceErrors) > 0 {
		body["sourceErrors"] = s.SourceErrors
	}
	return body
}

// Matches serves the grouped board for ?status=&date=&tz=.
func (h *Handler) Matches(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	h.serveBoard(w, r, scoreboard.Query{
		Status: strings.ToLower(strings.TrimSpace(q.Get("status"))),
		Date:   strings.TrimSpace(q.Get("date")),
	})
}

// LiveMatches serves the board restricted to live matches, across all dates.
func (h *Handler) LiveMatches(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.serveBoard(w, r, scoreboard.Query{Status: string(matches.StatusLive)})
}

func (h *Handler) serveBoard(w nethttp.ResponseWriter, r *nethttp.Request, q scoreboard.Query) {
	logger := loggerFromContext(r, h.logger)
	loc, ok := h.location(w, r)
	if !ok {
		return
	}
	q.Location = loc

	board, err := h.svc.Board(q)
	switch {
	case errors.Is(err, scoreboard.ErrInvalidStatus):
		writeError(w, r, nethttp.StatusBadRequest, "invalid status (expected all, live, upcoming or finished)", logger)
		return
	case errors.Is(err, scoreboard.ErrInvalidDate):
		writeError(w, r, nethttp.StatusBadRequest, "invalid date format (expected YYYY-MM-DD or today)", logger)
		return
	case err != nil:
		logging.Error(logger, "board failed", err)
		writeError(w, r, nethttp.StatusInternalServerError, "internal error", logger)
		return
	}

	logging.Debug(logger, "served board",
		slog.String(logging.FieldStatus, board.Status),
		slog.String(logging.FieldDate, board.Date),
		slog.Int(logging.FieldCount, len(board.Leagues)),
	)
	writeJSON(w, nethttp.StatusOK, board, logger)
}

// MatchByID returns a specific match from the latest refresh.
func (h *Handler) MatchByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || id == "" || strings.ContainsAny(id, " \t/") {
		writeError(w, r, nethttp.StatusBadRequest, "invalid match id", h.logger)
		return
	}

	m, ok := h.svc.MatchByID(id)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "match not found", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, m, h.logger)
}

// Dates serves the seven-day navigation window for ?offset=&selected=&tz=.
func (h *Handler) Dates(w nethttp.ResponseWriter, r *nethttp.Request) {
	loc, ok := h.location(w, r)
	if !ok {
		return
	}
	offset, ok := intParam(w, r, "offset", 0, h.logger)
	if !ok {
		return
	}
	selected, ok := intParam(w, r, "selected", view.DefaultSelectedIndex, h.logger)
	if !ok {
		return
	}

	writeJSON(w, nethttp.StatusOK, map[string]any{
		"offset": offset,
		"days":   h.svc.Dates(offset, selected, loc),
	}, h.logger)
}

// location resolves ?tz=, writing a 400 when the zone is unknown.
func (h *Handler) location(w nethttp.ResponseWriter, r *nethttp.Request) (*time.Location, bool) {
	tz := strings.TrimSpace(r.URL.Query().Get("tz"))
	if tz == "" {
		return h.svc.Location(), true
	}
	loc := timeutil.ResolveLocation(tz)
	if loc == nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid timezone", h.logger)
		return nil, false
	}
	return loc, true
}

func intParam(w nethttp.ResponseWriter, r *nethttp.Request, name string, def int, logger *slog.Logger) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid "+name, logger)
		return 0, false
	}
	return v, true
}
