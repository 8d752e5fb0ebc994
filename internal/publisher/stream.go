package publisher

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/zonera/scoreboard-service/internal/logging"
	"github.com/zonera/scoreboard-service/internal/metrics"
	"github.com/zonera/scoreboard-service/internal/poller"
)

const (
	// DefaultStream is the Redis stream refresh notifications are appended to.
	DefaultStream = "scoreboard:updates"

	publishTimeout = 2 * time.Second
	streamMaxLen   = 1000
)

// StreamAdder is the subset of the Redis client the publisher needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamPublisher appends one entry per completed refresh to a Redis stream
// so other services can react without polling.
type StreamPublisher struct {
	client  StreamAdder
	stream  string
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// New constructs a StreamPublisher. An empty stream uses DefaultStream.
func New(client StreamAdder, stream string, logger *slog.Logger, recorder *metrics.Recorder) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamPublisher{client: client, stream: stream, logger: logger, metrics: recorder}
}

// Dial parses a redis:// URL and returns a connected client.
func Dial(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return client, nil
}

// Publish implements poller.Sink. Failures are logged and counted; they
// never affect the refresh itself.
func (p *StreamPublisher) Publish(ctx context.Context, c poller.Cycle) {
	err := p.publish(ctx, c)
	p.metrics.RecordPublish(err)
	if err != nil {
		logging.Warn(p.logger, "refresh publish failed",
			slog.Int64(logging.FieldCycle, c.Seq),
			slog.Any("error", err),
		)
	}
}

func (p *StreamPublisher) publish(ctx context.Context, c poller.Cycle) error {
	if p.client == nil {
		return errors.New("redis client not configured")
	}
	data, err := sonic.Marshal(c.Sources)
	if err != nil {
		return errors.Wrap(err, "marshal sources")
	}
	failed := make([]string, 0, len(c.Failed))
	for _, s := range c.Failed {
		failed = append(failed, string(s))
	}
	failedJSON, err := sonic.Marshal(failed)
	if err != nil {
		return errors.Wrap(err, "marshal failed sources")
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{
			"type":         "refresh",
			"seq":          strconv.FormatInt(c.Seq, 10),
			"generated_at": c.CompletedAt.UTC().Format(time.RFC3339),
			"count":        strconv.Itoa(c.Sources.Len()),
			"failed":       string(failedJSON),
			"data":         string(data),
		},
	}).Err()
}

// Close closes the underlying client when it supports it.
func (p *StreamPublisher) Close() error {
	if closer, ok := p.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
