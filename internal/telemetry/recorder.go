package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"

	"github.com/raphi011/doclint/internal/doctor"
)

const (
	meterName  = "github.com/raphi011/doclint"
	loggerName = "doclint"
)

// Recorder implements doctor.Recorder with OTel counters, a duration
// histogram and one log event per path and per run.
type Recorder struct {
	mp metric.MeterProvider
	lp otellog.LoggerProvider

	once         sync.Once
	pathsTotal   metric.Int64Counter
	runsTotal    metric.Int64Counter
	fixesTotal   metric.Int64Counter
	pathDuration metric.Float64Histogram
}

var _ doctor.Recorder = (*Recorder)(nil)

// NewRecorder returns a recorder using the given providers. Nil providers
// resolve to the global ones on first use, so Init may run later.
func NewRecorder(mp metric.MeterProvider, lp otellog.LoggerProvider) *Recorder {
	return &Recorder{mp: mp, lp: lp}
}

func (r *Recorder) init() {
	r.once.Do(func() {
		if r.mp == nil {
			r.mp = otel.GetMeterProvider()
		}
		if r.lp == nil {
			r.lp = global.GetLoggerProvider()
		}
		m := r.mp.Meter(meterName)

		r.pathsTotal, _ = m.Int64Counter("doclint.paths.total",
			metric.WithDescription("Total paths processed, by outcome"),
		)
		r.runsTotal, _ = m.Int64Counter("doclint.runs.total",
			metric.WithDescription("Total doctor runs, by overall status"),
		)
		r.fixesTotal, _ = m.Int64Counter("doclint.fixes.total",
			metric.WithDescription("Total fixes applied"),
		)
		r.pathDuration, _ = m.Float64Histogram("doclint.path.duration_ms",
			metric.WithDescription("Time spent on one path in milliseconds"),
			metric.WithUnit("ms"),
		)
	})
}

// RecordPath records one finished path.
func (r *Recorder) RecordPath(ctx context.Context, res doctor.PathRunResult) {
	r.init()
	outcome := res.Outcome.String()
	r.pathsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	if n := len(res.Fixed); n > 0 {
		r.fixesTotal.Add(ctx, int64(n))
	}
	if res.Outcome != doctor.OutcomeSkipped {
		r.pathDuration.Record(ctx, float64(res.Duration.Microseconds())/1000,
			metric.WithAttributes(attribute.String("outcome", outcome)))
	}

	attrs := []otellog.KeyValue{
		otellog.String("target", res.Target),
		otellog.String("outcome", outcome),
		otellog.Int("diagnostics", len(res.Diagnostics)),
		otellog.Int("fixed", len(res.Fixed)),
		otellog.Int("declined", len(res.Declined)),
		otellog.Float64("duration_ms", float64(res.Duration.Microseconds())/1000),
	}
	if res.Err != nil {
		attrs = append(attrs,
			otellog.String("error", res.Err.Error()),
			otellog.String("error_kind", doctor.ErrorKind(res.Err)),
		)
	}
	if res.Reason != "" {
		attrs = append(attrs, otellog.String("reason", res.Reason))
	}
	r.emit(ctx, "path.done", pathSeverity(res.Outcome), attrs...)
}

// RecordRun records a finished run.
func (r *Recorder) RecordRun(ctx context.Context, run *doctor.RunResult) {
	r.init()
	status := run.Status.String()
	r.runsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))

	attrs := []otellog.KeyValue{
		otellog.String("status", status),
		otellog.Int("paths", len(run.Order)),
		otellog.Float64("duration_ms", float64(run.Duration.Microseconds())/1000),
	}
	for kind, n := range run.Counts() {
		attrs = append(attrs, otellog.Int(kind.String(), n))
	}
	sev := otellog.SeverityInfo
	if run.Status != doctor.StatusSuccess {
		sev = otellog.SeverityWarn
	}
	r.emit(ctx, "run.done", sev, attrs...)
}

// emit sends an OTel log event with the given body and key-value attributes.
func (r *Recorder) emit(ctx context.Context, body string, sev otellog.Severity, attrs ...otellog.KeyValue) {
	logger := r.lp.Logger(loggerName)
	var rec otellog.Record
	rec.SetBody(otellog.StringValue(body))
	rec.SetSeverity(sev)
	rec.AddAttributes(attrs...)
	logger.Emit(ctx, rec)
}

func pathSeverity(o doctor.OutcomeKind) otellog.Severity {
	switch o {
	case doctor.OutcomeFailed:
		return otellog.SeverityError
	case doctor.OutcomeFixesDeclined, doctor.OutcomeSkipped:
		return otellog.SeverityWarn
	default:
		return otellog.SeverityInfo
	}
}
