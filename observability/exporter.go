package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

const (
	defaultMinExportInterval = 100 * time.Millisecond
	defaultExportTimeout     = 5 * time.Second
)

// NewConsoleMeterProvider exports the collected metrics to w as JSON every
// interval and once more on shutdown.
// Serves for test/dev environment.
func NewConsoleMeterProvider(w io.Writer, interval time.Duration, opts ...stdoutmetric.Option) (*metric.MeterProvider, func(ctx context.Context) error, error) {
	if w == nil {
		return nil, nil, errors.New("[observability] nil metrics writer")
	}
	if interval < defaultMinExportInterval {
		interval = defaultMinExportInterval
	}
	opts = append([]stdoutmetric.Option{stdoutmetric.WithWriter(w)}, opts...)
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(defaultExportTimeout),
	)))
	return mp, mp.Shutdown, nil
}
