// Copyright 2021 mamezou-tech. All rights reserved.

package sampleserver_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mamezou-tech/opcua-sample/sampleserver"
	"go.opentelemetry.io/otel"
	"gotest.tools/assert"
)

// Spans still batched when the process stops are written by the shutdown func.
func TestStartTelemetryShutdownFlushes(t *testing.T) {
	tp, mp := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
	})

	buf := &bytes.Buffer{}
	shutdown, err := sampleserver.StartTelemetry(buf, time.Hour)
	assert.NilError(t, err)

	_, span := otel.Tracer("telemetry-test").Start(context.Background(), "opcua/Call/IncreaseVariable")
	span.End()

	assert.NilError(t, shutdown(context.Background()))
	assert.Assert(t, strings.Contains(buf.String(), "opcua/Call/IncreaseVariable"))
}
