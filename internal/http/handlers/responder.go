package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/zonera/scoreboard-service/internal/http/middleware"
	"github.com/zonera/scoreboard-service/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	body, err := sonic.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err != nil {
		logging.Error(logger, "failed to encode response", err)
		return
	}
	body = append(body, '\n')
	if _, err := w.Write(body); err != nil {
		logging.Debug(logger, "failed to write response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
