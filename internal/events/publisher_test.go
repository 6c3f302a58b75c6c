package events

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewEvent(t *testing.T) {
	data := &ActivitySubmittedData{ActivityID: 7, AllocationID: 3, WeekNumber: 12}
	event := NewEvent(EventActivitySubmitted, data)

	if _, err := uuid.Parse(event.ID); err != nil {
		t.Errorf("event ID is not a uuid: %q", event.ID)
	}
	if event.Type != EventActivitySubmitted {
		t.Errorf("unexpected type %q", event.Type)
	}
	if event.Source != "course-activity-service" {
		t.Errorf("unexpected source %q", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("unexpected version %q", event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	if event.Data != data {
		t.Error("payload not carried through")
	}
}

func TestMockEventPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("RecordsEvents", func(t *testing.T) {
		pub := NewMockEventPublisher(testLogger())

		if err := pub.Publish(ctx, NewEvent(EventOfferingCreated, nil)); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
		if got := pub.GetPublishedEvents(); len(got) != 1 || got[0].Type != EventOfferingCreated {
			t.Fatalf("unexpected recorded events: %+v", got)
		}

		pub.ClearEvents()
		if got := pub.GetPublishedEvents(); len(got) != 0 {
			t.Fatalf("expected cleared log, got %d events", len(got))
		}
	})

	t.Run("FailNextFailsOnce", func(t *testing.T) {
		pub := NewMockEventPublisher(testLogger())
		boom := errors.New("broker down")
		pub.FailNext = boom

		if err := pub.Publish(ctx, NewEvent(EventActivitySubmitted, nil)); !errors.Is(err, boom) {
			t.Fatalf("expected injected failure, got %v", err)
		}
		if err := pub.Publish(ctx, NewEvent(EventActivitySubmitted, nil)); err != nil {
			t.Fatalf("second publish should succeed, got %v", err)
		}
		if got := pub.GetPublishedEvents(); len(got) != 1 {
			t.Fatalf("expected only the successful publish recorded, got %d", len(got))
		}
	})
}
