package services

import (
	"context"
	"encoding/json"

	"vitals-server/ws"

	"github.com/pkg/errors"
)

// HubPublisher pushes reading events to the owner's open websocket feeds.
type HubPublisher struct {
	hub *ws.Hub
}

func NewHubPublisher(hub *ws.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(_ context.Context, event ReadingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "encode reading event")
	}
	p.hub.Broadcast(event.UserID, payload)
	return nil
}

func (p *HubPublisher) Close() error {
	p.hub.CloseAll()
	return nil
}
