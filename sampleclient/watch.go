// Copyright 2021 mamezou-tech. All rights reserved.

package sampleclient

import (
	"context"

	"github.com/awcullen/opcua/ua"
	"github.com/mamezou-tech/opcua-sample/nodeids"
	"github.com/pkg/errors"
)

const watchClientHandle = 42

// WatchSampleVariable subscribes to 'SampleVariable' and calls fn with each
// data change, starting with the current value. It returns nil when ctx is done.
func (c *Client) WatchSampleVariable(ctx context.Context, fn func(ua.DataValue)) error {
	res, err := c.ch.CreateSubscription(ctx, &ua.CreateSubscriptionRequest{
		RequestedPublishingInterval: 250.0,
		RequestedMaxKeepAliveCount:  30,
		RequestedLifetimeCount:      30 * 3,
		PublishingEnabled:           true,
	})
	if err != nil {
		return errors.Wrap(err, "Error creating subscription")
	}
	subscriptionID := res.SubscriptionID
	defer func() {
		// ctx may be done already
		c.ch.DeleteSubscriptions(context.Background(), &ua.DeleteSubscriptionsRequest{
			SubscriptionIDs: []uint32{subscriptionID},
		})
	}()

	res2, err := c.ch.CreateMonitoredItems(ctx, &ua.CreateMonitoredItemsRequest{
		SubscriptionID:     subscriptionID,
		TimestampsToReturn: ua.TimestampsToReturnBoth,
		ItemsToCreate: []ua.MonitoredItemCreateRequest{
			{
				ItemToMonitor: ua.ReadValueID{
					NodeID:      nodeids.SampleVariable,
					AttributeID: ua.AttributeIDValue,
				},
				MonitoringMode: ua.MonitoringModeReporting,
				RequestedParameters: ua.MonitoringParameters{
					ClientHandle: watchClientHandle, QueueSize: 1, DiscardOldest: true, SamplingInterval: 250.0},
			},
		},
	})
	if err != nil {
		return errors.Wrap(err, "Error creating monitored item")
	}
	if status := res2.Results[0].StatusCode; status.IsBad() {
		return errors.Wrap(status, "Error creating monitored item")
	}

	req := &ua.PublishRequest{
		RequestHeader:                ua.RequestHeader{TimeoutHint: 60000},
		SubscriptionAcknowledgements: []ua.SubscriptionAcknowledgement{},
	}
	for {
		res3, err := c.ch.Publish(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "Error publishing")
		}
		for _, data := range res3.NotificationMessage.NotificationData {
			if body, ok := data.(ua.DataChangeNotification); ok {
				for _, item := range body.MonitoredItems {
					if item.ClientHandle == watchClientHandle {
						fn(item.Value)
					}
				}
			}
		}
		req = &ua.PublishRequest{
			RequestHeader: ua.RequestHeader{TimeoutHint: 60000},
			SubscriptionAcknowledgements: []ua.SubscriptionAcknowledgement{
				{SequenceNumber: res3.NotificationMessage.SequenceNumber, SubscriptionID: res3.SubscriptionID},
			},
		}
	}
}
