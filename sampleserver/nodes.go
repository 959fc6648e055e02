// Copyright 2021 mamezou-tech. All rights reserved.

package sampleserver

import (
	"fmt"
	"time"

	"github.com/awcullen/opcua/server"
	"github.com/awcullen/opcua/ua"
	"github.com/mamezou-tech/opcua-sample/nodeids"
	"github.com/pkg/errors"
)

// samplePermissions lets anonymous and authenticated users read, write and call the sample nodes.
var samplePermissions = []ua.RolePermissionType{
	{RoleID: ua.ObjectIDWellKnownRoleAnonymous, Permissions: (ua.PermissionTypeBrowse | ua.PermissionTypeRead | ua.PermissionTypeWrite | ua.PermissionTypeCall)},
	{RoleID: ua.ObjectIDWellKnownRoleAuthenticatedUser, Permissions: (ua.PermissionTypeBrowse | ua.PermissionTypeRead | ua.PermissionTypeWrite | ua.PermissionTypeCall)},
}

// addSampleVariable adds the variable 'SampleVariable' to the Objects folder.
// Writes of the Value attribute are stored through the returned store.
func addSampleVariable(srv *server.Server, initialValue int32) (*SampleStore, error) {
	now := time.Now()
	n := server.NewVariableNode(
		srv,
		nodeids.SampleVariable,
		ua.NewQualifiedName(1, "SampleVar"),
		ua.NewLocalizedText("Sample Variable", locale),
		ua.NewLocalizedText("Sample Variable for mamezou-tech", locale),
		samplePermissions,
		[]ua.Reference{
			{ReferenceTypeID: ua.ReferenceTypeIDHasTypeDefinition, IsInverse: false, TargetID: ua.NewExpandedNodeID(ua.VariableTypeIDBaseDataVariableType)},
			{ReferenceTypeID: ua.ReferenceTypeIDOrganizes, IsInverse: true, TargetID: ua.NewExpandedNodeID(nodeids.ObjectsFolder)},
		},
		ua.NewDataValue(initialValue, ua.Good, now, 0, now, 0),
		ua.DataTypeIDInt32,
		ua.ValueRankScalar,
		nil,
		ua.AccessLevelsCurrentRead|ua.AccessLevelsCurrentWrite,
		250.0,
		false,
		nil,
	)
	store := NewSampleStore(n)

	// the server has checked type, rank, access level and permissions before calling.
	// The server stores the returned value itself, so return exactly what the store wrote.
	n.SetWriteValueHandler(func(session *server.Session, req ua.WriteValue) (ua.DataValue, ua.StatusCode) {
		v, ok := req.Value.Value.(int32)
		if !ok {
			return n.Value(), ua.BadTypeMismatch
		}
		return store.Set(v)
	})

	if err := srv.NamespaceManager().AddNode(n); err != nil {
		return nil, errors.Wrap(err, "Error adding SampleVariable")
	}
	return store, nil
}

// addMethod adds a method to the Objects folder, with a property describing its input and output arguments.
func addMethod(srv *server.Server, id ua.NodeID, name, description string, inputs, outputs []ua.Argument, handler MethodHandler) error {
	nm := srv.NamespaceManager()
	m := server.NewMethodNode(
		srv,
		id,
		ua.NewQualifiedName(1, name),
		ua.NewLocalizedText(name, locale),
		ua.NewLocalizedText(description, locale),
		samplePermissions,
		[]ua.Reference{
			{ReferenceTypeID: ua.ReferenceTypeIDHasComponent, IsInverse: true, TargetID: ua.NewExpandedNodeID(nodeids.ObjectsFolder)},
		},
		true,
	)
	m.SetCallMethodHandler(handler)
	if err := nm.AddNode(m); err != nil {
		return errors.Wrapf(err, "Error adding method %s", name)
	}
	if len(inputs) > 0 {
		if err := nm.AddNode(newArgumentsProperty(srv, id, name, "InputArguments", inputs)); err != nil {
			return errors.Wrapf(err, "Error adding input arguments of method %s", name)
		}
	}
	if len(outputs) > 0 {
		if err := nm.AddNode(newArgumentsProperty(srv, id, name, "OutputArguments", outputs)); err != nil {
			return errors.Wrapf(err, "Error adding output arguments of method %s", name)
		}
	}
	return nil
}

func newArgumentsProperty(srv *server.Server, methodID ua.NodeID, methodName, propertyName string, args []ua.Argument) *server.VariableNode {
	value := make([]ua.ExtensionObject, len(args))
	for i, arg := range args {
		value[i] = arg
	}
	now := time.Now()
	return server.NewVariableNode(
		srv,
		ua.ParseNodeID(fmt.Sprintf("ns=1;s=%s.%s", methodName, propertyName)),
		ua.NewQualifiedName(0, propertyName),
		ua.NewLocalizedText(propertyName, ""),
		ua.NewLocalizedText("", ""),
		nil,
		[]ua.Reference{
			{ReferenceTypeID: ua.ReferenceTypeIDHasTypeDefinition, IsInverse: false, TargetID: ua.NewExpandedNodeID(ua.VariableTypeIDPropertyType)},
			{ReferenceTypeID: ua.ReferenceTypeIDHasProperty, IsInverse: true, TargetID: ua.NewExpandedNodeID(methodID)},
		},
		ua.NewDataValue(value, ua.Good, now, 0, now, 0),
		ua.DataTypeIDArgument,
		ua.ValueRankOneDimension,
		[]uint32{uint32(len(args))},
		ua.AccessLevelsCurrentRead,
		0.0,
		false,
		nil,
	)
}

var (
	increaseVariableInputs = []ua.Argument{
		{
			Name:        "delta",
			DataType:    ua.DataTypeIDInt32,
			ValueRank:   ua.ValueRankScalar,
			Description: ua.NewLocalizedText("How much increase the number of the variable", locale),
		},
	}
	incInt32ArrayValuesInputs = []ua.Argument{
		{
			Name:            "int32 array",
			DataType:        ua.DataTypeIDInt32,
			ValueRank:       ua.ValueRankOneDimension,
			ArrayDimensions: []uint32{nodeids.ArrayLength},
			Description:     ua.NewLocalizedText("int32[5] array", locale),
		},
		{
			Name:        "int32 delta",
			DataType:    ua.DataTypeIDInt32,
			ValueRank:   ua.ValueRankScalar,
			Description: ua.NewLocalizedText("int32 delta", locale),
		},
	}
	incInt32ArrayValuesOutputs = []ua.Argument{
		{
			Name:            "each entry is incremented by the delta",
			DataType:        ua.DataTypeIDInt32,
			ValueRank:       ua.ValueRankOneDimension,
			ArrayDimensions: []uint32{nodeids.ArrayLength},
			Description:     ua.NewLocalizedText("int32[5] array", locale),
		},
	}
)
