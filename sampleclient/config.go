// Copyright 2021 mamezou-tech. All rights reserved.

package sampleclient

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultEndpointURL is the endpoint of the sample server, if not configured.
	DefaultEndpointURL = "opc.tcp://localhost:4840"
	// DefaultDelta is the delta the demo passes to 'IncreaseVariable'.
	DefaultDelta int32 = 32
	// DefaultWriteValue is the value the demo writes to 'SampleVariable'.
	DefaultWriteValue int32 = -1
	// ApplicationName names the client application and prefixes its session names.
	ApplicationName = "simpleclient"
)

// Config configures a Client.
type Config struct {
	// EndpointURL is the url of the server.
	EndpointURL string
	// UserName and Password select a user name identity. An empty UserName connects anonymously.
	UserName string
	Password string
	// Timeout bounds the time to connect. Zero means no limit.
	Timeout time.Duration
	// Logger defaults to logrus.StandardLogger().
	Logger logrus.FieldLogger
}

// DefaultConfig returns the configuration of the sample client.
func DefaultConfig() Config {
	return Config{
		EndpointURL: DefaultEndpointURL,
		Timeout:     10 * time.Second,
	}
}
