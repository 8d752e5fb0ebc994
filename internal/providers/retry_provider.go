package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/logging"
	"github.com/zonera/scoreboard-service/internal/metrics"
)

const defaultBackoff = 200 * time.Millisecond

// retryingFetcher wraps a Fetcher with bounded exponential backoff and
// per-attempt metrics.
type retryingFetcher struct {
	inner     Fetcher
	logger    *slog.Logger
	metrics   *metrics.Recorder
	retries   int
	backoff   time.Duration
	newPolicy func() backoff.BackOff
}

// NewRetryingFetcher retries failed fetches up to retries extra times within
// the same cycle. Non-retryable errors (rate limits, 4xx, cancellation) stop
// immediately.
func NewRetryingFetcher(inner Fetcher, logger *slog.Logger, recorder *metrics.Recorder, retries int, base time.Duration) Fetcher {
	if retries < 0 {
		retries = 0
	}
	if base <= 0 {
		base = defaultBackoff
	}
	r := &retryingFetcher{
		inner:   inner,
		logger:  logger,
		metrics: recorder,
		retries: retries,
		backoff: base,
	}
	r.newPolicy = r.exponential
	return r
}

func (r *retryingFetcher) Source() matches.Source {
	if r.inner == nil {
		return ""
	}
	return r.inner.Source()
}

func (r *retryingFetcher) Fetch(ctx context.Context) ([]matches.Match, error) {
	if r.inner == nil {
		return nil, ErrProviderUnavailable
	}
	source := r.inner.Source()
	attempt := 0

	op := func() ([]matches.Match, error) {
		attempt++
		start := time.Now()
		ms, err := r.inner.Fetch(ctx)
		r.metrics.RecordSourceAttempt(string(source), time.Since(start), err)
		if err == nil {
			return ms, nil
		}
		if rl, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(string(source), rl.RetryAfter)
		}
		if !Retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	notify := func(err error, delay time.Duration) {
		logWithSource(ctx, r.logger, slog.LevelWarn, source, "source fetch retry",
			slog.Int(logging.FieldAttempt, attempt),
			slog.Int("max_attempts", r.retries+1),
			slog.Duration("backoff", delay),
			slog.Any("error", err),
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newPolicy(), uint64(r.retries)), ctx)
	ms, err := backoff.RetryNotifyWithData(op, policy, notify)
	if err != nil {
		return nil, err
	}
	return ms, nil
}

// Close forwards to the wrapped fetcher.
func (r *retryingFetcher) Close() error {
	return Close(r.inner)
}

func (r *retryingFetcher) exponential() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.backoff
	b.MaxInterval = 10 * r.backoff
	b.MaxElapsedTime = 0
	return b
}
