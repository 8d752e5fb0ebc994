package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/logging"
	"github.com/zonera/scoreboard-service/internal/metrics"
	"github.com/zonera/scoreboard-service/internal/providers"
	"github.com/zonera/scoreboard-service/internal/view"
)

const (
	defaultInterval = 60 * time.Second
	// readyFailureLimit is how many consecutive all-source failures flip readiness.
	readyFailureLimit = 3
)

// Cycle is the outcome of one refresh: every source's slot after all of
// them settled. A failed source leaves its slot empty.
type Cycle struct {
	Seq         int64
	Sources     view.Sources
	Failed      []matches.Source
	StartedAt   time.Time
	CompletedAt time.Time
}

// Sink receives each completed cycle. Sinks run sequentially on the cycle's
// goroutine and must not block for long.
type Sink interface {
	Publish(ctx context.Context, c Cycle)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, c Cycle)

func (f SinkFunc) Publish(ctx context.Context, c Cycle) { f(ctx, c) }

// Poller refetches every source on an interval and on demand.
type Poller struct {
	fetchers []providers.Fetcher
	sinks    []Sink
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	trigger  chan struct{}
	done     chan struct{}
	loopDone chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
	inflight sync.WaitGroup
	seq      atomic.Int64

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the refresh loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	Cycles              int64
	SourceErrors        map[matches.Source]string
}

// IsReady reports whether a cycle with at least one healthy source has
// completed and the loop is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < readyFailureLimit
}

// New constructs a Poller. A non-positive interval uses the 60s default.
func New(fetchers []providers.Fetcher, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration, sinks ...Sink) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		fetchers: fetchers,
		sinks:    sinks,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		trigger:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
}

// Start runs an initial cycle and then one per tick or Trigger until ctx is
// cancelled or Stop is called. It returns immediately.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.ticker = time.NewTicker(p.interval)
	p.startMu.Unlock()

	go func() {
		defer close(p.loopDone)
		p.logInfo("poller started",
			slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()),
			slog.Int(logging.FieldCount, len(p.fetchers)),
		)
		p.launch(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				p.logInfo("poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				p.logInfo("poller stopped")
				return
			case <-p.ticker.C:
				p.launchUnlessStopped(ctx)
			case <-p.trigger:
				p.launchUnlessStopped(ctx)
			}
		}
	}()
}

// Trigger requests an out-of-band cycle. Requests made while one is already
// pending are coalesced.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Stop halts the loop and waits for in-flight cycles until ctx is done.
// The loop exits before the wait starts, so no cycle is launched once Stop
// returns.
func (p *Poller) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})

	p.startMu.Lock()
	started := p.started
	p.startMu.Unlock()

	finished := make(chan struct{})
	go func() {
		if started {
			<-p.loopDone
		}
		p.inflight.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// launchUnlessStopped skips a tick or trigger that raced with Stop.
func (p *Poller) launchUnlessStopped(ctx context.Context) {
	select {
	case <-p.done:
		return
	default:
	}
	p.launch(ctx)
}

// launch starts a cycle without waiting for the previous one; a slow source
// never delays the next tick.
func (p *Poller) launch(ctx context.Context) {
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		p.RunOnce(ctx)
	}()
}

// RunOnce fetches all sources concurrently, waits for every one of them to
// settle, then hands the cycle to the sinks.
func (p *Poller) RunOnce(ctx context.Context) Cycle {
	start := p.now()
	c := Cycle{Seq: p.seq.Add(1), StartedAt: start}
	p.recordAttempt(start)

	results := make([][]matches.Match, len(p.fetchers))
	errs := make([]error, len(p.fetchers))

	var wg conc.WaitGroup
	for i, f := range p.fetchers {
		wg.Go(func() {
			var pc panics.Catcher
			pc.Try(func() {
				results[i], errs[i] = f.Fetch(ctx)
			})
			if r := pc.Recovered(); r != nil {
				errs[i] = r.AsError()
			}
		})
	}
	wg.Wait()

	c.Sources = view.Sources{
		Custom:       []matches.Match{},
		APISports:    []matches.Match{},
		FootballData: []matches.Match{},
	}
	sourceErrs := make(map[matches.Source]string)
	for i, f := range p.fetchers {
		source := f.Source()
		if errs[i] != nil {
			c.Failed = append(c.Failed, source)
			sourceErrs[source] = errs[i].Error()
			p.logWarn(ctx, "source fetch failed, slot left empty",
				slog.String(logging.FieldSource, string(source)),
				slog.Any("error", errs[i]),
			)
			continue
		}
		if !assign(&c.Sources, source, results[i]) {
			p.logWarn(ctx, "unknown source ignored", slog.String(logging.FieldSource, string(source)))
			continue
		}
		p.metrics.RecordSourceMatches(string(source), len(results[i]))
		p.reportInvalid(ctx, source, results[i])
	}

	c.CompletedAt = p.now()
	elapsed := c.CompletedAt.Sub(start)
	p.metrics.RecordRefreshCycle(elapsed, c.Sources.Len(), len(c.Failed))

	if len(p.fetchers) > 0 && len(c.Failed) == len(p.fetchers) {
		p.recordFailure(sourceErrs, c.CompletedAt)
	} else {
		p.recordSuccess(sourceErrs, c.CompletedAt)
	}

	for _, s := range p.sinks {
		s.Publish(ctx, c)
	}

	p.logInfo("refresh cycle complete",
		slog.Int64(logging.FieldCycle, c.Seq),
		slog.Int(logging.FieldCount, c.Sources.Len()),
		slog.Int("failed_sources", len(c.Failed)),
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
	)
	return c
}

func assign(s *view.Sources, source matches.Source, ms []matches.Match) bool {
	if ms == nil {
		ms = []matches.Match{}
	}
	switch source {
	case matches.SourceCustom:
		s.Custom = ms
	case matches.SourceAPISports:
		s.APISports = ms
	case matches.SourceFootballData:
		s.FootballData = ms
	default:
		return false
	}
	return true
}

// reportInvalid logs matches that break the score invariant: only upcoming
// matches may lack scores. They are still served.
func (p *Poller) reportInvalid(ctx context.Context, source matches.Source, ms []matches.Match) int {
	invalid := 0
	for _, m := range ms {
		if m.Valid() {
			continue
		}
		invalid++
		p.logWarn(ctx, "match fails score invariant",
			slog.String(logging.FieldSource, string(source)),
			slog.String("match_id", m.ID),
			slog.String(logging.FieldStatus, string(m.Status)),
		)
	}
	return invalid
}

func (p *Poller) stopTicker() {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) logInfo(msg string, args ...any) {
	logging.Info(p.logger, msg, args...)
}

func (p *Poller) logWarn(ctx context.Context, msg string, args ...any) {
	logging.Warn(logging.FromContext(ctx, p.logger), msg, args...)
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(sourceErrs map[matches.Source]string, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.Cycles++
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	p.status.SourceErrors = sourceErrs
}

func (p *Poller) recordFailure(sourceErrs map[matches.Source]string, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.Cycles++
	p.status.ConsecutiveFailures++
	p.status.LastError = "all sources failed"
	p.status.SourceErrors = sourceErrs
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	s := p.status
	if s.SourceErrors != nil {
		cp := make(map[matches.Source]string, len(s.SourceErrors))
		for k, v := range s.SourceErrors {
			cp[k] = v
		}
		s.SourceErrors = cp
	}
	return s
}

// Fetchers exposes the configured fetchers (primarily for cleanup in callers).
func (p *Poller) Fetchers() []providers.Fetcher {
	return p.fetchers
}
