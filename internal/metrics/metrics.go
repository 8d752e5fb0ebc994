package metrics

import (
	"sync"
	"time"
)

type sourceStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
	lastCount       int
}

type cycleStats struct {
	cycles        int
	lastMatches   int
	lastFailed    int
	lastDuration  time.Duration
	publishErrors int
	wsClients     int
}

// Recorder keeps in-memory counters about source fetches and refresh cycles
// and mirrors them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu     sync.Mutex
	stats  map[string]*sourceStats
	cycles cycleStats
	otel   *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*sourceStats),
		otel:  otel,
	}
}

// RecordSourceAttempt counts one fetch against a source and stores its latency.
func (r *Recorder) RecordSourceAttempt(source string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(source)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSourceAttempt(source, duration, err)
	}
}

// RecordSourceMatches stores how many matches a source contributed to the last cycle.
func (r *Recorder) RecordSourceMatches(source string, count int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.ensureStats(source).lastCount = count
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSourceMatches(source, count)
	}
}

// RecordRateLimit tracks that a source answered 429 and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(source string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(source)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(source, retryAfter)
	}
}

// RecordRefreshCycle tracks one completed fetch cycle.
func (r *Recorder) RecordRefreshCycle(duration time.Duration, matches, failedSources int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.cycles.cycles++
	r.cycles.lastMatches = matches
	r.cycles.lastFailed = failedSources
	r.cycles.lastDuration = duration
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCycle(duration, matches, failedSources)
	}
}

// RecordPublish tracks delivery of a cycle notification to an external stream.
func (r *Recorder) RecordPublish(err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.mu.Lock()
		r.cycles.publishErrors++
		r.mu.Unlock()
	}
	if r.otel != nil {
		r.otel.recordPublish(err)
	}
}

// RecordWSClients adjusts the connected WebSocket client gauge by delta.
func (r *Recorder) RecordWSClients(delta int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.cycles.wsClients += delta
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordWSClients(delta)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// SourceCalls returns the total attempts recorded for a source.
func (r *Recorder) SourceCalls(source string) int {
	return r.Snapshot(source).Calls
}

// SourceErrors returns the total failed attempts recorded for a source.
func (r *Recorder) SourceErrors(source string) int {
	return r.Snapshot(source).Errors
}

// RateLimitHits returns the number of rate limit events seen for a source.
func (r *Recorder) RateLimitHits(source string) int {
	return r.Snapshot(source).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a source.
func (r *Recorder) LastRetryAfter(source string) time.Duration {
	return r.Snapshot(source).LastRetryAfter
}

// Snapshot is a copy of the stats for one source.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
	LastCount       int
}

func (r *Recorder) Snapshot(source string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[source]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
		LastCount:       stats.lastCount,
	}
}

// CycleSnapshot is a copy of the refresh cycle stats.
type CycleSnapshot struct {
	Cycles        int
	LastMatches   int
	LastFailed    int
	LastDuration  time.Duration
	PublishErrors int
	WSClients     int
}

func (r *Recorder) Cycles() CycleSnapshot {
	if r == nil {
		return CycleSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.cycles
	return CycleSnapshot{
		Cycles:        c.cycles,
		LastMatches:   c.lastMatches,
		LastFailed:    c.lastFailed,
		LastDuration:  c.lastDuration,
		PublishErrors: c.publishErrors,
		WSClients:     c.wsClients,
	}
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(source string) *sourceStats {
	stats, ok := r.stats[source]
	if !ok {
		stats = &sourceStats{}
		r.stats[source] = stats
	}
	return stats
}
