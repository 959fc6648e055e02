// Copyright 2021 mamezou-tech. All rights reserved.

package sampleclient_test

import (
	"context"
	"sync"

	"github.com/awcullen/opcua/ua"
	"github.com/mamezou-tech/opcua-sample/nodeids"
	"github.com/mamezou-tech/opcua-sample/sampleserver"
)

// fakeAccessor keeps 'SampleVariable' in memory. Set a status to make the operation fail with it.
type fakeAccessor struct {
	sync.Mutex
	value       int32
	readStatus  ua.StatusCode
	writeStatus ua.StatusCode
	callStatus  ua.StatusCode
}

func (f *fakeAccessor) ReadSampleVariable(ctx context.Context) (int32, error) {
	f.Lock()
	defer f.Unlock()
	if f.readStatus.IsBad() {
		return 0, f.readStatus
	}
	return f.value, nil
}

func (f *fakeAccessor) WriteSampleVariable(ctx context.Context, value int32) error {
	f.Lock()
	defer f.Unlock()
	if f.writeStatus.IsBad() {
		return f.writeStatus
	}
	f.value = value
	return nil
}

func (f *fakeAccessor) IncreaseVariable(ctx context.Context, delta int32) (int, error) {
	f.Lock()
	defer f.Unlock()
	if f.callStatus.IsBad() {
		return 0, f.callStatus
	}
	f.value += delta
	return 0, nil
}

func (f *fakeAccessor) IncInt32ArrayValues(ctx context.Context, values []int32, delta int32) ([]int32, error) {
	res := sampleserver.IncInt32ArrayValues(nil, ua.CallMethodRequest{InputArguments: []ua.Variant{values, delta}})
	if res.StatusCode.IsBad() {
		return nil, res.StatusCode
	}
	return res.OutputArguments[0].([]int32), nil
}

func (f *fakeAccessor) BrowseObjects(ctx context.Context) ([]ua.ReferenceDescription, error) {
	return []ua.ReferenceDescription{
		{
			NodeID:      ua.NewExpandedNodeID(nodeids.SampleVariable),
			BrowseName:  ua.NewQualifiedName(1, "SampleVar"),
			DisplayName: ua.NewLocalizedText("Sample Variable", ""),
			NodeClass:   ua.NodeClassVariable,
		},
	}, nil
}
