package providers

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
)

const (
	// DefaultHTTPTimeout bounds a single upstream request.
	DefaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
	maxResponseBody    = 8 << 20
)

// HTTPDoer is satisfied by *http.Client and test fakes.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns a client whose transport is traced by otelhttp.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// ResolveHTTPClient returns client, or a traced default when nil.
func ResolveHTTPClient(client HTTPDoer) HTTPDoer {
	if client != nil {
		return client
	}
	return NewHTTPClient(DefaultHTTPTimeout)
}

// NormalizeBaseURL trims a trailing slash and falls back to def.
func NormalizeBaseURL(raw, def string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = def
	}
	return strings.TrimSuffix(raw, "/")
}

// CheckResponse converts non-2xx responses into RateLimitError or StatusError.
// The body is drained and closed on error.
func CheckResponse(source matches.Source, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{
			Source:     source,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Remaining:  firstHeader(resp.Header, "X-RateLimit-Requests-Remaining", "X-Requests-Available-Minute", "X-RateLimit-Remaining"),
			Message:    msg,
		}
	}
	return &StatusError{Source: source, StatusCode: resp.StatusCode, Body: msg}
}

// DecodeJSON reads a response body and decodes it with sonic.
func DecodeJSON(r io.Reader, dest any) error {
	body, err := io.ReadAll(io.LimitReader(r, maxResponseBody))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	if err := sonic.Unmarshal(body, dest); err != nil {
		return errors.Wrap(err, "decode body")
	}
	return nil
}

func parseRetryAfter(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func firstHeader(h http.Header, keys ...string) string {
	for _, k := range keys {
		if v := h.Get(k); v != "" {
			return v
		}
	}
	return ""
}
