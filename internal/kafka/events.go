package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	EventItineraryCreated  = "itinerary_created"
	EventItineraryOrphaned = "itinerary_orphaned"
)

// ItineraryEvent is published after a composite create. An orphaned event
// names an itinerary whose segments were not all created.
type ItineraryEvent struct {
	Type         string    `json:"type"`
	ItineraryID  string    `json:"itinerary_id"`
	SegmentCount int       `json:"segment_count"`
	Error        string    `json:"error,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func DecodeEvent(msg kafka.Message) (ItineraryEvent, error) {
	var event ItineraryEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return ItineraryEvent{}, fmt.Errorf("failed to decode event at offset %d: %w", msg.Offset, err)
	}
	return event, nil
}
