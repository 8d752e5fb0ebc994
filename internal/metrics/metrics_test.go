package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksSourceAttemptsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordSourceAttempt("apisports", 10*time.Millisecond, nil)
	rec.RecordSourceAttempt("apisports", 15*time.Millisecond, errors.New("boom"))

	if got := rec.SourceCalls("apisports"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.SourceErrors("apisports"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}

	snap := rec.Snapshot("apisports")
	if snap.Calls != 2 || snap.Errors != 1 || snap.LastCallLatency != 15*time.Millisecond {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if other := rec.Snapshot("footballdata"); other.Calls != 0 {
		t.Fatalf("expected untouched source to be empty, got %+v", other)
	}
}

func TestRecorderTracksRateLimits(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRateLimit("footballdata", 5*time.Second)
	rec.RecordRateLimit("footballdata", 0)

	if got := rec.RateLimitHits("footballdata"); got != 2 {
		t.Fatalf("expected 2 rate limit hits, got %d", got)
	}
	if got := rec.LastRetryAfter("footballdata"); got != 5*time.Second {
		t.Fatalf("expected last retry-after to be 5s, got %s", got)
	}
}

func TestRecorderTracksCycles(t *testing.T) {
	rec := NewRecorder()
	rec.RecordSourceMatches("custom", 3)
	rec.RecordRefreshCycle(20*time.Millisecond, 7, 1)
	rec.RecordRefreshCycle(30*time.Millisecond, 9, 0)
	rec.RecordPublish(errors.New("redis down"))
	rec.RecordPublish(nil)
	rec.RecordWSClients(1)
	rec.RecordWSClients(1)
	rec.RecordWSClients(-1)

	c := rec.Cycles()
	if c.Cycles != 2 || c.LastMatches != 9 || c.LastFailed != 0 || c.LastDuration != 30*time.Millisecond {
		t.Fatalf("unexpected cycle snapshot %+v", c)
	}
	if c.PublishErrors != 1 {
		t.Fatalf("expected 1 publish error, got %d", c.PublishErrors)
	}
	if c.WSClients != 1 {
		t.Fatalf("expected 1 ws client, got %d", c.WSClients)
	}
	if got := rec.Snapshot("custom").LastCount; got != 3 {
		t.Fatalf("expected last count 3, got %d", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordSourceAttempt("x", time.Millisecond, nil)
	rec.RecordSourceMatches("x", 1)
	rec.RecordRateLimit("x", time.Second)
	rec.RecordRefreshCycle(time.Millisecond, 1, 0)
	rec.RecordPublish(nil)
	rec.RecordWSClients(1)
	rec.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
	if rec.SourceCalls("x") != 0 || rec.Cycles().Cycles != 0 {
		t.Fatalf("expected zero values from nil recorder")
	}
}
