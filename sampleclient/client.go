// Copyright 2021 mamezou-tech. All rights reserved.

// Package sampleclient accesses the nodes of the sample server: it reads and
// writes 'SampleVariable' and calls the methods 'IncreaseVariable' and
// 'IncInt32ArrayValues'.
package sampleclient

import (
	"context"
	"time"

	"github.com/awcullen/opcua/client"
	"github.com/awcullen/opcua/ua"
	"github.com/google/uuid"
	"github.com/mamezou-tech/opcua-sample/nodeids"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Client is a session with the sample server.
type Client struct {
	ch  *client.Client
	log logrus.FieldLogger
}

// Dial opens a secure channel and a session with the server.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.EndpointURL == "" {
		cfg.EndpointURL = DefaultEndpointURL
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("endpoint", cfg.EndpointURL)

	opts := []client.Option{
		client.WithApplicationName(ApplicationName),
		client.WithSessionName(ApplicationName + "-" + uuid.New().String()),
		client.WithInsecureSkipVerify(),
	}
	if cfg.UserName != "" {
		opts = append(opts, client.WithUserNameIdentity(cfg.UserName, cfg.Password))
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	ch, err := client.Dial(ctx, cfg.EndpointURL, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "Error connecting to '%s'", cfg.EndpointURL)
	}
	log.Debug("Connected.")
	return &Client{ch: ch, log: log}, nil
}

// EndpointURL returns the url of the server.
func (c *Client) EndpointURL() string {
	return c.ch.EndpointURL()
}

// ReadSampleVariable reads the value of 'SampleVariable'.
// A bad status, or a value that is not a scalar Int32, is an error.
func (c *Client) ReadSampleVariable(ctx context.Context) (int32, error) {
	res, err := c.ch.Read(ctx, &ua.ReadRequest{
		NodesToRead: []ua.ReadValueID{
			{NodeID: nodeids.SampleVariable, AttributeID: ua.AttributeIDValue},
		},
	})
	if err != nil {
		return 0, errors.Wrap(err, "Error reading SampleVariable")
	}
	dv := res.Results[0]
	if dv.StatusCode.IsBad() {
		return 0, dv.StatusCode
	}
	v, ok := dv.Value.(int32)
	if !ok {
		return 0, ua.BadTypeMismatch
	}
	return v, nil
}

// WriteSampleVariable writes the value of 'SampleVariable'.
// A bad status is returned as the error.
func (c *Client) WriteSampleVariable(ctx context.Context, value int32) error {
	res, err := c.ch.Write(ctx, &ua.WriteRequest{
		NodesToWrite: []ua.WriteValue{
			{
				NodeID:      nodeids.SampleVariable,
				AttributeID: ua.AttributeIDValue,
				Value:       ua.NewDataValue(value, 0, time.Time{}, 0, time.Time{}, 0),
			},
		},
	})
	if err != nil {
		return errors.Wrap(err, "Error writing SampleVariable")
	}
	if status := res.Results[0]; status.IsBad() {
		return status
	}
	return nil
}

// IncreaseVariable calls 'IncreaseVariable' with the given delta.
// It returns the number of output arguments.
func (c *Client) IncreaseVariable(ctx context.Context, delta int32) (int, error) {
	res, err := c.call(ctx, nodeids.IncreaseVariable, delta)
	if err != nil {
		return 0, err
	}
	return len(res.OutputArguments), nil
}

// IncInt32ArrayValues calls 'IncInt32ArrayValues' and returns each entry of values incremented by delta.
func (c *Client) IncInt32ArrayValues(ctx context.Context, values []int32, delta int32) ([]int32, error) {
	res, err := c.call(ctx, nodeids.IncInt32ArrayValues, values, delta)
	if err != nil {
		return nil, err
	}
	if len(res.OutputArguments) != 1 {
		return nil, ua.BadTypeMismatch
	}
	out, ok := res.OutputArguments[0].([]int32)
	if !ok {
		return nil, ua.BadTypeMismatch
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, methodID ua.NodeID, args ...ua.Variant) (ua.CallMethodResult, error) {
	res, err := c.ch.Call(ctx, &ua.CallRequest{
		MethodsToCall: []ua.CallMethodRequest{
			{ObjectID: nodeids.ObjectsFolder, MethodID: methodID, InputArguments: args},
		},
	})
	if err != nil {
		return ua.CallMethodResult{}, errors.Wrap(err, "Error calling method")
	}
	result := res.Results[0]
	if result.StatusCode.IsBad() {
		c.log.WithFields(logrus.Fields{"node": methodID, "status": result.StatusCode}).Debug("Method call failed.")
		return result, result.StatusCode
	}
	return result, nil
}

// BrowseObjects returns the references of the Objects folder.
func (c *Client) BrowseObjects(ctx context.Context) ([]ua.ReferenceDescription, error) {
	res, err := c.ch.Browse(ctx, &ua.BrowseRequest{
		NodesToBrowse: []ua.BrowseDescription{
			{
				NodeID:          nodeids.ObjectsFolder,
				BrowseDirection: ua.BrowseDirectionForward,
				ReferenceTypeID: ua.ReferenceTypeIDHierarchicalReferences,
				IncludeSubtypes: true,
				ResultMask:      uint32(ua.BrowseResultMaskAll),
			},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "Error browsing")
	}
	if status := res.Results[0].StatusCode; status.IsBad() {
		return nil, status
	}
	return res.Results[0].References, nil
}

// Close closes the session and the secure channel. If closing fails, the channel is aborted.
func (c *Client) Close(ctx context.Context) error {
	if err := c.ch.Close(ctx); err != nil {
		c.ch.Abort(ctx)
		return errors.Wrap(err, "Error closing client")
	}
	return nil
}

// Abort closes the secure channel without closing the session.
func (c *Client) Abort(ctx context.Context) error {
	return c.ch.Abort(ctx)
}

// StatusCode returns the status code of an error returned by Client, or
// BadUnexpectedError if err does not carry one.
func StatusCode(err error) ua.StatusCode {
	if err == nil {
		return ua.Good
	}
	if status, ok := errors.Cause(err).(ua.StatusCode); ok {
		return status
	}
	return ua.BadUnexpectedError
}
