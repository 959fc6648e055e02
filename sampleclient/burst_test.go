// Copyright 2021 mamezou-tech. All rights reserved.

package sampleclient_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/awcullen/opcua/ua"
	"github.com/mamezou-tech/opcua-sample/sampleclient"
	"gotest.tools/assert"
)

func TestBurst(t *testing.T) {
	res, err := sampleclient.Burst(context.Background(), &fakeAccessor{value: 10}, 100, 3)
	assert.NilError(t, err)
	assert.Equal(t, res, sampleclient.BurstResult{Before: 10, Expected: 310, Actual: 310})

	buf := &bytes.Buffer{}
	res.Print(buf)
	assert.Equal(t, buf.String(), "the value of SampleVariable before: 10\nexpected: 310, actual: 310\n")
}

func TestBurstCountsFailedCalls(t *testing.T) {
	res, err := sampleclient.Burst(context.Background(), &fakeAccessor{value: 10, callStatus: ua.BadTooManyOperations}, 5, 3)
	assert.NilError(t, err)
	assert.Equal(t, res, sampleclient.BurstResult{Before: 10, Expected: 10, Actual: 10, Failed: 5})
}

func TestBurstFailsWithoutRead(t *testing.T) {
	_, err := sampleclient.Burst(context.Background(), &fakeAccessor{readStatus: ua.BadNodeIDUnknown}, 5, 3)
	assert.Equal(t, sampleclient.StatusCode(err), ua.BadNodeIDUnknown)
}
