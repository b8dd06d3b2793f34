// Package telemetry owns the OpenTelemetry meter provider for battle runs.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Config holds metrics configuration
type Config struct {
	Enabled  bool
	Writer   io.Writer     // destination of the exported metrics (required when enabled)
	Interval time.Duration // export period; zero exports only on shutdown
	Pretty   bool
}

// Provider manages the meter provider. A disabled provider hands out no-op
// meters and its Shutdown does nothing.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	config        Config
}

// New creates a provider. If metrics are disabled, returns a no-op provider.
func New(cfg Config) (*Provider, error) {
	p := &Provider{config: cfg}
	if !cfg.Enabled {
		return p, nil
	}
	if cfg.Writer == nil {
		return nil, fmt.Errorf("metrics enabled but no writer configured")
	}

	opts := []stdoutmetric.Option{stdoutmetric.WithWriter(cfg.Writer)}
	if cfg.Pretty {
		opts = append(opts, stdoutmetric.WithPrettyPrint())
	}
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		// long enough that only the shutdown flush exports
		interval = 24 * time.Hour
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))
	p.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return p, nil
}

// Meter returns a meter with the given name.
func (p *Provider) Meter(name string) metric.Meter {
	if p.meterProvider == nil {
		return noop.Meter{}
	}
	return p.meterProvider.Meter(name)
}

// Shutdown flushes pending metrics and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("metric shutdown failed: %w", err)
	}
	return nil
}

// Enabled returns whether metrics are exported.
func (p *Provider) Enabled() bool {
	return p.meterProvider != nil
}
