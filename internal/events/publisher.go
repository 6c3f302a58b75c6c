package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by this service. Activity merges reuse the
// submitted type; the notification pipeline treats every weekly write
// as a submission.
const (
	EventActivitySubmitted = "activity.submitted"
	EventOfferingCreated   = "offering.created"
	EventUserRegistered    = "user.registered"
)

// Event is the envelope for every message published to the broker.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with a fresh ID and timestamp.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "course-activity-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ActivitySubmittedData is the payload for activity submission intents
// consumed by the notification pipeline.
type ActivitySubmittedData struct {
	ActivityID    uint `json:"activity_id"`
	AllocationID  uint `json:"allocation_id"`
	FacilitatorID uint `json:"facilitator_id"`
	WeekNumber    int  `json:"week_number"`
}

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
