// Package telemetry exports doclint run metrics and log events over OTLP.
//
// Export is off unless DOCLINT_OTEL_METRICS_URL or DOCLINT_OTEL_LOGS_URL is
// set. With both unset the global OTel providers stay no-op and recording
// costs almost nothing.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Config selects the OTLP/HTTP endpoints. Empty URLs disable that signal.
type Config struct {
	MetricsURL string
	LogsURL    string
	Version    string
}

// FromEnv reads the endpoints from the environment.
func FromEnv(getenv func(string) string, version string) Config {
	return Config{
		MetricsURL: getenv("DOCLINT_OTEL_METRICS_URL"),
		LogsURL:    getenv("DOCLINT_OTEL_LOGS_URL"),
		Version:    version,
	}
}

// Enabled reports whether any signal is exported.
func (c Config) Enabled() bool {
	return c.MetricsURL != "" || c.LogsURL != ""
}

// Init installs global meter and logger providers for the configured
// endpoints. The returned shutdown flushes pending data and must be called
// before exit.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled() {
		return noop, nil
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", "doclint"),
		attribute.String("service.version", cfg.Version),
	)

	var shutdowns []func(context.Context) error
	shutdown = func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdowns {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.MetricsURL != "" {
		exp, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(cfg.MetricsURL))
		if err != nil {
			return noop, fmt.Errorf("metrics exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(mp)
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	if cfg.LogsURL != "" {
		exp, err := otlploghttp.New(ctx, otlploghttp.WithEndpointURL(cfg.LogsURL))
		if err != nil {
			_ = shutdown(ctx)
			return noop, fmt.Errorf("logs exporter: %w", err)
		}
		lp := sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
			sdklog.WithResource(res),
		)
		global.SetLoggerProvider(lp)
		shutdowns = append(shutdowns, lp.Shutdown)
	}

	return shutdown, nil
}
