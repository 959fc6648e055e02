// Copyright 2021 mamezou-tech. All rights reserved.

// Package nodeids names the nodes the sample server exposes. Namespace 1 is
// the server's own application namespace.
package nodeids

import (
	"github.com/awcullen/opcua/ua"
)

var (
	// SampleVariable identifies the Int32 variable 'SampleVariable'.
	SampleVariable = ua.ParseNodeID("ns=1;s=SampleVarNodeId")
	// IncreaseVariable identifies the method 'IncreaseVariable'.
	IncreaseVariable = ua.ParseNodeID("ns=1;s=addIncreaseVarNodeId")
	// IncInt32ArrayValues identifies the method 'IncInt32ArrayValues'.
	IncInt32ArrayValues = ua.ParseNodeID("ns=1;s=IncInt32ArrayValues")
	// ObjectsFolder is the parent of all sample nodes.
	ObjectsFolder = ua.ObjectIDObjectsFolder
)

const (
	// SampleVariableInitialValue is the value of 'SampleVariable' when the server starts.
	SampleVariableInitialValue int32 = 42
	// ArrayLength is the number of elements accepted and returned by 'IncInt32ArrayValues'.
	ArrayLength = 5
)
