package github

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/ga-ut/gh-db/pkg/core"
)

// ScopeName is the instrumentation scope for traces and metrics.
const ScopeName = "github.com/ga-ut/gh-db/pkg/adapters/github"

var (
	attrPhase  = attribute.Key("ghdb.phase")
	attrStatus = attribute.Key("ghdb.status")
)

func tracerOrNoop(t trace.Tracer) trace.Tracer {
	if t != nil {
		return t
	}
	return nooptrace.NewTracerProvider().Tracer(ScopeName)
}

type instruments struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	dropped  metric.Int64Counter
}

func newInstruments(meter metric.Meter, logger *slog.Logger) *instruments {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(ScopeName)
	}
	m, err := buildInstruments(meter)
	if err != nil {
		logger.Warn("metrics disabled", "error", err)
		m, _ = buildInstruments(noop.NewMeterProvider().Meter(ScopeName))
	}
	return m
}

func buildInstruments(meter metric.Meter) (*instruments, error) {
	m := &instruments{}
	var err error

	m.requests, err = meter.Int64Counter("ghdb.requests",
		metric.WithDescription("Requests sent to the tracker, by phase and status"),
	)
	if err != nil {
		return nil, err
	}

	m.duration, err = meter.Float64Histogram("ghdb.request.duration",
		metric.WithDescription("Tracker round-trip duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.dropped, err = meter.Int64Counter("ghdb.list.dropped",
		metric.WithDescription("Listed records skipped because their body could not be decoded"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *instruments) recordRequest(ctx context.Context, phase core.Phase, status int, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attrPhase.String(string(phase)),
		attrStatus.String(strconv.Itoa(status)),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *instruments) recordDropped(ctx context.Context, n int) {
	m.dropped.Add(ctx, int64(n))
}
