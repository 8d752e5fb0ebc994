package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const meterName = "scoreboard-service"

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = meterName
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx              context.Context
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
	sourceAttempts   metric.Int64Counter
	sourceErrors     metric.Int64Counter
	sourceLatencyMs  metric.Float64Histogram
	sourceMatches    metric.Int64Histogram
	rateLimitHits    metric.Int64Counter
	retryAfterMs     metric.Float64Histogram
	cycles           metric.Int64Counter
	cycleLatencyMs   metric.Float64Histogram
	cycleMatches     metric.Int64Histogram
	cycleFailed      metric.Int64Counter
	publishes        metric.Int64Counter
	wsClients        metric.Int64UpDownCounter
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter(meterName)
	inst := &otelInstruments{ctx: context.Background()}
	var err error

	if inst.requests, err = meter.Int64Counter("http_requests_total"); err != nil {
		return nil, err
	}
	if inst.requestLatencyMs, err = meter.Float64Histogram("http_request_duration_ms"); err != nil {
		return nil, err
	}
	if inst.sourceAttempts, err = meter.Int64Counter("source_attempts_total"); err != nil {
		return nil, err
	}
	if inst.sourceErrors, err = meter.Int64Counter("source_errors_total"); err != nil {
		return nil, err
	}
	if inst.sourceLatencyMs, err = meter.Float64Histogram("source_duration_ms"); err != nil {
		return nil, err
	}
	if inst.sourceMatches, err = meter.Int64Histogram("source_matches"); err != nil {
		return nil, err
	}
	if inst.rateLimitHits, err = meter.Int64Counter("source_rate_limit_hits_total"); err != nil {
		return nil, err
	}
	if inst.retryAfterMs, err = meter.Float64Histogram("source_retry_after_ms"); err != nil {
		return nil, err
	}
	if inst.cycles, err = meter.Int64Counter("refresh_cycles_total"); err != nil {
		return nil, err
	}
	if inst.cycleLatencyMs, err = meter.Float64Histogram("refresh_cycle_duration_ms"); err != nil {
		return nil, err
	}
	if inst.cycleMatches, err = meter.Int64Histogram("refresh_cycle_matches"); err != nil {
		return nil, err
	}
	if inst.cycleFailed, err = meter.Int64Counter("refresh_cycle_failed_sources_total"); err != nil {
		return nil, err
	}
	if inst.publishes, err = meter.Int64Counter("refresh_publish_total"); err != nil {
		return nil, err
	}
	if inst.wsClients, err = meter.Int64UpDownCounter("websocket_clients"); err != nil {
		return nil, err
	}
	return inst, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordSourceAttempt(source string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrSource, source)}
	o.recordCounter(o.sourceAttempts, 1, attrs...)
	o.recordHistogram(o.sourceLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.sourceErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordSourceMatches(source string, count int) {
	if o == nil {
		return
	}
	o.sourceMatches.Record(o.ctx, int64(count), metric.WithAttributes(attribute.String(AttrSource, source)))
}

func (o *otelInstruments) recordRateLimit(source string, retryAfter time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrSource, source)}
	o.recordCounter(o.rateLimitHits, 1, attrs...)
	if retryAfter > 0 {
		o.recordHistogram(o.retryAfterMs, float64(retryAfter.Milliseconds()), attrs...)
	}
}

func (o *otelInstruments) recordCycle(duration time.Duration, matches, failed int) {
	if o == nil {
		return
	}
	o.recordCounter(o.cycles, 1)
	o.recordHistogram(o.cycleLatencyMs, float64(duration.Milliseconds()))
	o.cycleMatches.Record(o.ctx, int64(matches))
	if failed > 0 {
		o.recordCounter(o.cycleFailed, int64(failed))
	}
}

func (o *otelInstruments) recordPublish(err error) {
	if o == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	o.recordCounter(o.publishes, 1, attribute.String(AttrResult, result))
}

func (o *otelInstruments) recordWSClients(delta int) {
	if o == nil {
		return
	}
	o.wsClients.Add(o.ctx, int64(delta))
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
