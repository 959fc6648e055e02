// Copyright 2021 mamezou-tech. All rights reserved.

package sampleserver_test

import (
	"testing"

	"github.com/awcullen/opcua/ua"
	"github.com/google/go-cmp/cmp"
	"github.com/mamezou-tech/opcua-sample/nodeids"
	"github.com/mamezou-tech/opcua-sample/sampleserver"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/assert"
)

func TestIncreaseVariable(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	store := sampleserver.NewSampleStore(newMemStorage(int32(-1)))
	h := sampleserver.IncreaseVariable(store, log)

	res := h(nil, ua.CallMethodRequest{
		ObjectID:       nodeids.ObjectsFolder,
		MethodID:       nodeids.IncreaseVariable,
		InputArguments: []ua.Variant{int32(32)},
	})
	assert.Equal(t, res.StatusCode, ua.Good)
	assert.Equal(t, len(res.OutputArguments), 0)
	v, _ := store.Value()
	assert.Equal(t, v, int32(31))
	assert.Equal(t, hook.LastEntry().Data["value"], int32(31))

	cases := []struct {
		name    string
		args    []ua.Variant
		status  ua.StatusCode
		results []ua.StatusCode
	}{
		{"no arguments", nil, ua.BadArgumentsMissing, nil},
		{"too many arguments", []ua.Variant{int32(1), int32(2)}, ua.BadTooManyArguments, nil},
		{"wrong type", []ua.Variant{"1"}, ua.BadInvalidArgument, []ua.StatusCode{ua.BadTypeMismatch}},
		{"wrong integer width", []ua.Variant{int64(1)}, ua.BadInvalidArgument, []ua.StatusCode{ua.BadTypeMismatch}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := h(nil, ua.CallMethodRequest{
				ObjectID:       nodeids.ObjectsFolder,
				MethodID:       nodeids.IncreaseVariable,
				InputArguments: c.args,
			})
			assert.Equal(t, res.StatusCode, c.status)
			assert.DeepEqual(t, res.InputArgumentResults, c.results)
			v, _ := store.Value()
			assert.Equal(t, v, int32(31))
		})
	}
}

func TestIncInt32ArrayValues(t *testing.T) {
	res := sampleserver.IncInt32ArrayValues(nil, ua.CallMethodRequest{
		ObjectID:       nodeids.ObjectsFolder,
		MethodID:       nodeids.IncInt32ArrayValues,
		InputArguments: []ua.Variant{[]int32{0, 1, 2, 3, -4}, int32(10)},
	})
	assert.Equal(t, res.StatusCode, ua.Good)
	if diff := cmp.Diff([]ua.Variant{[]int32{10, 11, 12, 13, 6}}, res.OutputArguments); diff != "" {
		t.Errorf("unexpected output arguments (-want +got):\n%s", diff)
	}

	cases := []struct {
		name    string
		args    []ua.Variant
		status  ua.StatusCode
		results []ua.StatusCode
	}{
		{"missing delta", []ua.Variant{[]int32{0, 1, 2, 3, 4}}, ua.BadArgumentsMissing, nil},
		{"too many arguments", []ua.Variant{[]int32{0, 1, 2, 3, 4}, int32(1), int32(1)}, ua.BadTooManyArguments, nil},
		{"short array", []ua.Variant{[]int32{0, 1, 2}, int32(1)}, ua.BadInvalidArgument, []ua.StatusCode{ua.BadOutOfRange, ua.Good}},
		{"array of another type", []ua.Variant{[]float64{0, 1, 2, 3, 4}, int32(1)}, ua.BadInvalidArgument, []ua.StatusCode{ua.BadTypeMismatch, ua.Good}},
		{"delta of another type", []ua.Variant{[]int32{0, 1, 2, 3, 4}, "1"}, ua.BadInvalidArgument, []ua.StatusCode{ua.Good, ua.BadTypeMismatch}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := sampleserver.IncInt32ArrayValues(nil, ua.CallMethodRequest{
				ObjectID:       nodeids.ObjectsFolder,
				MethodID:       nodeids.IncInt32ArrayValues,
				InputArguments: c.args,
			})
			assert.Equal(t, res.StatusCode, c.status)
			assert.DeepEqual(t, res.InputArgumentResults, c.results)
			assert.Equal(t, len(res.OutputArguments), 0)
		})
	}
}
