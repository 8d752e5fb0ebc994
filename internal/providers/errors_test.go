package providers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
)

func TestRateLimitErrorString(t *testing.T) {
	err := &RateLimitError{
		Source:     matches.SourceAPISports,
		StatusCode: 429,
		Message:    "rate limited",
	}
	if got := err.Error(); got == "" || got == "rate limited" {
		t.Fatalf("expected status in error string, got %q", got)
	}

	rl, ok := AsRateLimitError(errors.Wrap(err, "wrapped"))
	if !ok || rl == nil {
		t.Fatalf("expected to unwrap rate limit error")
	}

	noStatus := &RateLimitError{}
	if got := noStatus.Error(); got == "" {
		t.Fatalf("expected fallback message")
	}
}

func TestFetchFailureMarksAndKeepsCause(t *testing.T) {
	cause := &StatusError{Source: matches.SourceFootballData, StatusCode: 503}
	err := FetchFailure(matches.SourceFootballData, cause, "get matches")

	if !IsFetchFailure(err) {
		t.Fatalf("expected fetch failure mark")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 503 {
		t.Fatalf("expected status error in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "footballdata: get matches") {
		t.Fatalf("expected source prefix, got %q", err.Error())
	}
	if FetchFailure(matches.SourceCustom, nil, "noop") != nil {
		t.Fatalf("expected nil for nil cause")
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("connection reset"), true},
		{"canceled", errors.Wrap(context.Canceled, "fetch"), false},
		{"deadline", context.DeadlineExceeded, true},
		{"rate limit", &RateLimitError{StatusCode: 429}, false},
		{"server error", &StatusError{StatusCode: 502}, true},
		{"request timeout", &StatusError{StatusCode: 408}, true},
		{"forbidden", &StatusError{StatusCode: 403}, false},
		{"marked server error", FetchFailure(matches.SourceAPISports, &StatusError{StatusCode: 500}, "x"), true},
	}
	for _, tc := range cases {
		if got := Retryable(tc.err); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func response(status int, body string, header http.Header) *http.Response {
	if header == nil {
		header = make(http.Header)
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     header,
	}
}

func TestCheckResponse(t *testing.T) {
	if err := CheckResponse(matches.SourceAPISports, response(http.StatusOK, "{}", nil)); err != nil {
		t.Fatalf("expected nil for 200, got %v", err)
	}

	h := make(http.Header)
	h.Set("Retry-After", "30")
	h.Set("X-RateLimit-Requests-Remaining", "0")
	err := CheckResponse(matches.SourceAPISports, response(http.StatusTooManyRequests, "slow down", h))
	rl, ok := AsRateLimitError(err)
	if !ok {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if rl.RetryAfter != 30*time.Second || rl.Remaining != "0" || rl.Message != "slow down" {
		t.Fatalf("unexpected rate limit error %+v", rl)
	}

	err = CheckResponse(matches.SourceFootballData, response(http.StatusForbidden, " restricted ", nil))
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 403 || statusErr.Body != "restricted" {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter(""); got != 0 {
		t.Fatalf("expected 0, got %s", got)
	}
	if got := parseRetryAfter("nonsense"); got != 0 {
		t.Fatalf("expected 0, got %s", got)
	}
	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got <= 0 {
		t.Fatalf("expected positive duration from http date, got %s", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dest struct {
		Results int `json:"results"`
	}
	if err := DecodeJSON(strings.NewReader(`{"results": 4}`), &dest); err != nil || dest.Results != 4 {
		t.Fatalf("expected decode, got %+v %v", dest, err)
	}
	if err := DecodeJSON(strings.NewReader(`{"results": `), &dest); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	if got := NormalizeBaseURL("", "https://x.io/v4/"); got != "https://x.io/v4" {
		t.Fatalf("unexpected %q", got)
	}
	if got := NormalizeBaseURL(" http://local/ ", "https://x.io"); got != "http://local" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestCloseForwards(t *testing.T) {
	if err := Close(FetcherFunc{}); err != nil {
		t.Fatalf("expected nil for non-closer, got %v", err)
	}
}
