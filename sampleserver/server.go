// Copyright 2021 mamezou-tech. All rights reserved.

// Package sampleserver hosts an OPC UA server exposing the Int32 variable
// 'SampleVariable' and the methods 'IncreaseVariable' and 'IncInt32ArrayValues'.
package sampleserver

import (
	"context"
	"net/url"
	"os"
	"time"

	"github.com/awcullen/opcua/server"
	"github.com/awcullen/opcua/ua"
	"github.com/mamezou-tech/opcua-sample/nodeids"
	"github.com/mamezou-tech/opcua-sample/pki"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Server is the sample OPC UA server.
type Server struct {
	srv   *server.Server
	store *SampleStore
	log   logrus.FieldLogger
}

// New creates the server and installs the sample nodes.
// The certificate and key are created in cfg.PKIDir, if not found.
func New(cfg Config) (*Server, error) {
	if cfg.EndpointURL == "" {
		cfg.EndpointURL = DefaultEndpointURL
	}
	if cfg.PKIDir == "" {
		cfg.PKIDir = DefaultPKIDir
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("endpoint", cfg.EndpointURL)

	if _, err := url.Parse(cfg.EndpointURL); err != nil {
		return nil, errors.Wrap(err, "Error parsing endpoint url")
	}

	certPath, keyPath, err := pki.Ensure(cfg.PKIDir, ApplicationName)
	if err != nil {
		return nil, errors.Wrap(err, "Error creating PKI")
	}

	host, _ := os.Hostname()
	opts := []server.Option{
		server.WithBuildInfo(
			ua.BuildInfo{
				ProductURI:       "https://github.com/mamezou-tech/opcua-sample",
				ManufacturerName: "mamezou-tech",
				ProductName:      ApplicationName,
				SoftwareVersion:  SoftwareVersion,
			}),
		server.WithAnonymousIdentity(true),
		server.WithSecurityPolicyNone(true),
		server.WithInsecureSkipVerify(),
	}
	if len(cfg.Users) > 0 {
		auth, err := newUserNameAuthenticator(cfg.Users)
		if err != nil {
			return nil, err
		}
		opts = append(opts, server.WithAuthenticateUserNameIdentityFunc(auth.Authenticate))
	}

	srv, err := server.New(
		ua.ApplicationDescription{
			ApplicationURI: pki.ApplicationURI(ApplicationName),
			ProductURI:     "https://github.com/mamezou-tech/opcua-sample",
			ApplicationName: ua.LocalizedText{
				Text:   ApplicationName + "@" + host,
				Locale: "en",
			},
			ApplicationType:     ua.ApplicationTypeServer,
			GatewayServerURI:    "",
			DiscoveryProfileURI: "",
			DiscoveryURLs:       []string{cfg.EndpointURL},
		},
		certPath,
		keyPath,
		cfg.EndpointURL,
		opts...,
	)
	if err != nil {
		return nil, errors.Wrap(err, "Error constructing server")
	}

	store, err := addSampleVariable(srv, cfg.InitialValue)
	if err != nil {
		return nil, err
	}

	inst := newInstrumentation(cfg.TracerProvider, cfg.MeterProvider)
	if err := addMethod(srv, nodeids.IncreaseVariable, "IncreaseVariable",
		"Increase the value of a variable by the number of arguments",
		increaseVariableInputs, nil,
		inst.wrap("IncreaseVariable", IncreaseVariable(store, log.WithField("node", "IncreaseVariable")))); err != nil {
		return nil, err
	}
	if err := addMethod(srv, nodeids.IncInt32ArrayValues, "IncInt32ArrayValues",
		"Increment each entry of an int32 array by a delta",
		incInt32ArrayValuesInputs, incInt32ArrayValuesOutputs,
		inst.wrap("IncInt32ArrayValues", IncInt32ArrayValues)); err != nil {
		return nil, err
	}

	return &Server{srv: srv, store: store, log: log}, nil
}

// Store returns the store of 'SampleVariable'.
func (s *Server) Store() *SampleStore {
	return s.store
}

// EndpointURL returns the url the server listens on.
func (s *Server) EndpointURL() string {
	return s.srv.EndpointURL()
}

// State returns the state of the server.
func (s *Server) State() ua.ServerState {
	return s.srv.State()
}

// Run opens the server and serves requests until ctx is done, then closes the server.
// Run returns nil after a normal close.
func (s *Server) Run(ctx context.Context) error {
	served := make(chan struct{})
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(served)
		s.log.Infof("Starting server '%s' at '%s'", s.srv.LocalDescription().ApplicationName.Text, s.srv.EndpointURL())
		if err := s.srv.ListenAndServe(); err != ua.BadServerHalted {
			return errors.Wrap(err, "Error opening server")
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
		case <-served:
			return nil
		}
		// wait until the listener is open, so Close has something to stop
		for s.srv.State() != ua.ServerStateRunning {
			select {
			case <-served:
				return nil
			case <-time.After(10 * time.Millisecond):
			}
		}
		s.log.Info("Stopping server...")
		if err := s.srv.Close(); err != nil {
			return errors.Wrap(err, "Error closing server")
		}
		return nil
	})
	return g.Wait()
}
