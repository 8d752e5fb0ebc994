package providers

import (
	"context"
	"log/slog"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/logging"
)

// logWithSource emits a log entry if a logger is available and always includes the source name.
func logWithSource(ctx context.Context, logger *slog.Logger, level slog.Level, source matches.Source, msg string, args ...any) {
	logger = logging.FromContext(ctx, logger)
	if logger == nil {
		return
	}
	args = append(args, slog.String(logging.FieldSource, string(source)))
	logger.Log(ctx, level, msg, args...)
}
