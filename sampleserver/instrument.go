// Copyright 2021 mamezou-tech. All rights reserved.

package sampleserver

import (
	"context"
	"fmt"
	"time"

	"github.com/awcullen/opcua/server"
	"github.com/awcullen/opcua/ua"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/mamezou-tech/opcua-sample/sampleserver"

// instrumentation records a span, a call counter and a duration histogram per method call.
type instrumentation struct {
	tracer   trace.Tracer
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstrumentation(tp trace.TracerProvider, mp metric.MeterProvider) *instrumentation {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	inst := &instrumentation{tracer: tp.Tracer(instrumentationName)}
	inst.calls, _ = meter.Int64Counter("opcua.server.method.calls",
		metric.WithUnit("{call}"),
		metric.WithDescription("Number of method calls"),
	)
	inst.duration, _ = meter.Float64Histogram("opcua.server.method.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of method calls"),
	)
	return inst
}

// wrap returns a handler that records the call of the named method.
func (inst *instrumentation) wrap(name string, h MethodHandler) MethodHandler {
	return func(session *server.Session, req ua.CallMethodRequest) ua.CallMethodResult {
		start := time.Now()
		ctx, span := inst.tracer.Start(context.Background(), "opcua/Call/"+name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("rpc.system", "opcua"),
				attribute.String("rpc.method", name),
				attribute.String("opcua.method_id", fmt.Sprint(req.MethodID)),
				attribute.Int("opcua.input_arguments", len(req.InputArguments)),
			),
		)
		defer span.End()

		res := h(session, req)

		status := "ok"
		if res.StatusCode.IsBad() {
			status = "error"
			span.SetStatus(codes.Error, res.StatusCode.Error())
		}
		span.SetAttributes(attribute.Int64("opcua.status_code", int64(res.StatusCode)))
		attrs := metric.WithAttributes(
			attribute.String("rpc.method", name),
			attribute.String("status", status),
		)
		if inst.calls != nil {
			inst.calls.Add(ctx, 1, attrs)
		}
		if inst.duration != nil {
			inst.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		}
		return res
	}
}
