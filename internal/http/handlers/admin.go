package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/zonera/scoreboard-service/internal/http/requestutil"
	"github.com/zonera/scoreboard-service/internal/logging"
)

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	trigger func()
	token   string
	logger  *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. trigger requests an
// out-of-band refresh.
func NewAdminHandler(trigger func(), token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		trigger: trigger,
		token:   token,
		logger:  logger,
	}
}

// Refresh asks the poller for an immediate cycle. Guarded by ADMIN_TOKEN;
// with no token configured every request is rejected.
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if !h.authorize(r) {
		logging.Warn(logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", logger)
		return
	}
	if h.trigger == nil {
		writeError(w, r, http.StatusServiceUnavailable, "refresh not configured", logger)
		return
	}

	h.trigger()
	logging.Info(logger, "admin refresh requested")
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"}, logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := requestutil.BearerToken(r)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
