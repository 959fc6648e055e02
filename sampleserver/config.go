// Copyright 2021 mamezou-tech. All rights reserved.

package sampleserver

import (
	"github.com/awcullen/opcua/ua"
	"github.com/mamezou-tech/opcua-sample/nodeids"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultEndpointURL is the endpoint of the server, if not configured.
	DefaultEndpointURL = "opc.tcp://localhost:4840"
	// DefaultPKIDir is the directory holding the server certificate and key, if not configured.
	DefaultPKIDir = "./pki"
	// ApplicationName names the server application and its certificate.
	ApplicationName = "simpleserver"
	// SoftwareVersion is reported in the server's BuildInfo.
	SoftwareVersion = "1.0.0"
)

// Config configures a Server.
type Config struct {
	// EndpointURL is the url the server listens on.
	EndpointURL string
	// PKIDir holds server.crt and server.key. Missing files are created.
	PKIDir string
	// Users may log in with a user name and password, in addition to anonymous users.
	Users []ua.UserNameIdentity
	// InitialValue is the value of 'SampleVariable' at start.
	InitialValue int32
	// Logger defaults to logrus.StandardLogger().
	Logger logrus.FieldLogger
	// TracerProvider defaults to otel.GetTracerProvider().
	TracerProvider trace.TracerProvider
	// MeterProvider defaults to otel.GetMeterProvider().
	MeterProvider metric.MeterProvider
}

// DefaultConfig returns the configuration of the sample server.
func DefaultConfig() Config {
	return Config{
		EndpointURL:  DefaultEndpointURL,
		PKIDir:       DefaultPKIDir,
		InitialValue: nodeids.SampleVariableInitialValue,
	}
}
