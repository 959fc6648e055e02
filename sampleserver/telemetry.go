// Copyright 2021 mamezou-tech. All rights reserved.

package sampleserver

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// StartTelemetry installs global tracer and meter providers that export spans
// and metrics to w. Call the returned func to flush and stop the exporters.
func StartTelemetry(w io.Writer, interval time.Duration) (func(context.Context) error, error) {
	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, errors.Wrap(err, "Error creating trace exporter")
	}
	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, errors.Wrap(err, "Error creating metric exporter")
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(
		sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(interval)),
	))
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	return func(ctx context.Context) error {
		errTrace := tp.Shutdown(ctx)
		errMetric := mp.Shutdown(ctx)
		if errTrace != nil {
			return errors.Wrap(errTrace, "Error stopping tracer provider")
		}
		if errMetric != nil {
			return errors.Wrap(errMetric, "Error stopping meter provider")
		}
		return nil
	}, nil
}
