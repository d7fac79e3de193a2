package services

import (
	"context"
	"log"
	"time"

	"vitals-server/entities"
)

// Reading event types.
const (
	ReadingCreated = "reading.created"
	ReadingUpdated = "reading.updated"
	ReadingDeleted = "reading.deleted"
)

// ReadingEvent describes a change to one owner's readings.
type ReadingEvent struct {
	Type      string            `json:"type"`
	UserID    string            `json:"userId"`
	ReadingID string            `json:"readingId"`
	Reading   *entities.Reading `json:"reading,omitempty"`
	At        time.Time         `json:"at"`
}

// NewReadingEvent stamps an event for reading r (which may be nil on delete).
func NewReadingEvent(eventType, userID, readingID string, r *entities.Reading) ReadingEvent {
	return ReadingEvent{
		Type:      eventType,
		UserID:    userID,
		ReadingID: readingID,
		Reading:   r,
		At:        time.Now().UTC(),
	}
}

// ReadingPublisher delivers reading events to interested parties.
type ReadingPublisher interface {
	Publish(ctx context.Context, event ReadingEvent) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ReadingEvent) error { return nil }
func (NopPublisher) Close() error                                { return nil }

// MultiPublisher fans an event out to several publishers. A failing
// publisher is logged and does not stop the others.
type MultiPublisher []ReadingPublisher

func (m MultiPublisher) Publish(ctx context.Context, event ReadingEvent) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			log.Printf("[events] publish %s for %s failed: %v", event.Type, event.UserID, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (m MultiPublisher) Close() error {
	var first error
	for _, p := range m {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
