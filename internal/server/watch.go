package server

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/zonera/scoreboard-service/internal/logging"
	"github.com/zonera/scoreboard-service/internal/providers/customstore"
)

// startWatch turns custom-store change notifications into immediate refreshes.
func (s *Server) startWatch(ctx context.Context) {
	if s.watcher == nil || s.poller == nil {
		return
	}
	go s.watch(ctx)
}

func (s *Server) watch(ctx context.Context) {
	err := s.watcher.Watch(ctx, s.poller.Trigger)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, customstore.ErrWatchUnsupported):
		logging.Debug(s.logger, "custom store has no change feed, polling only")
	default:
		logging.Warn(s.logger, "custom store watch stopped", "err", err)
	}
}
