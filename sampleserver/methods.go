// Copyright 2021 mamezou-tech. All rights reserved.

package sampleserver

import (
	"github.com/awcullen/opcua/server"
	"github.com/awcullen/opcua/ua"
	"github.com/mamezou-tech/opcua-sample/nodeids"
	"github.com/sirupsen/logrus"
)

// MethodHandler handles a call of a method node within the caller's session.
type MethodHandler func(session *server.Session, req ua.CallMethodRequest) ua.CallMethodResult

// IncreaseVariable returns the handler of method 'IncreaseVariable'.
// The handler adds the input argument 'delta' to the value of the store.
// It returns no output arguments.
func IncreaseVariable(store *SampleStore, log logrus.FieldLogger) MethodHandler {
	return func(session *server.Session, req ua.CallMethodRequest) ua.CallMethodResult {
		if len(req.InputArguments) < 1 {
			return ua.CallMethodResult{StatusCode: ua.BadArgumentsMissing}
		}
		if len(req.InputArguments) > 1 {
			return ua.CallMethodResult{StatusCode: ua.BadTooManyArguments}
		}
		delta, ok := req.InputArguments[0].(int32)
		if !ok {
			return ua.CallMethodResult{
				StatusCode:           ua.BadInvalidArgument,
				InputArgumentResults: []ua.StatusCode{ua.BadTypeMismatch},
			}
		}
		value, status := store.Add(delta)
		if status.IsBad() {
			log.WithFields(logrus.Fields{"delta": delta, "status": status}).Warn("Error increasing SampleVariable.")
			return ua.CallMethodResult{StatusCode: status}
		}
		log.WithFields(logrus.Fields{"delta": delta, "value": value}).Debug("Increased SampleVariable.")
		return ua.CallMethodResult{OutputArguments: []ua.Variant{}}
	}
}

// IncInt32ArrayValues handles method 'IncInt32ArrayValues'.
// The input arguments are an array of five Int32 and a delta. The output
// argument is the array with each entry incremented by the delta.
func IncInt32ArrayValues(session *server.Session, req ua.CallMethodRequest) ua.CallMethodResult {
	if len(req.InputArguments) < 2 {
		return ua.CallMethodResult{StatusCode: ua.BadArgumentsMissing}
	}
	if len(req.InputArguments) > 2 {
		return ua.CallMethodResult{StatusCode: ua.BadTooManyArguments}
	}
	statusCode := ua.Good
	inputArgumentResults := make([]ua.StatusCode, 2)
	values, ok := req.InputArguments[0].([]int32)
	switch {
	case !ok:
		statusCode = ua.BadInvalidArgument
		inputArgumentResults[0] = ua.BadTypeMismatch
	case len(values) != nodeids.ArrayLength:
		statusCode = ua.BadInvalidArgument
		inputArgumentResults[0] = ua.BadOutOfRange
	}
	delta, ok := req.InputArguments[1].(int32)
	if !ok {
		statusCode = ua.BadInvalidArgument
		inputArgumentResults[1] = ua.BadTypeMismatch
	}
	if statusCode == ua.BadInvalidArgument {
		return ua.CallMethodResult{StatusCode: statusCode, InputArgumentResults: inputArgumentResults}
	}
	result := make([]int32, len(values))
	for i, v := range values {
		result[i] = v + delta
	}
	return ua.CallMethodResult{OutputArguments: []ua.Variant{result}}
}
