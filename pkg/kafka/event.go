package kafka

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TopicPrefix is the prefix shared by every EcoTrail topic.
const TopicPrefix = "ecotrail"

// SchemaVersion is stamped on every envelope. Consumers reject versions they
// do not know.
const SchemaVersion = 1

// Topic builds a topic name such as "ecotrail.product.created".
func Topic(aggregate, action string) string {
	return strings.Join([]string{TopicPrefix, aggregate, action}, ".")
}

// Event is the envelope written to every topic. Data is the JSON encoding
// of the created product or review.
type Event struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Version       int             `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent encodes data into a fresh envelope. eventType doubles as the
// topic name.
func NewEvent(eventType, aggregateID, aggregateType, source string, data any) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("kafka: encode %s payload: %w", eventType, err)
	}
	return &Event{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Version:       SchemaVersion,
		Timestamp:     time.Now().UTC(),
		Source:        source,
		Data:          payload,
	}, nil
}

// WithCorrelationID records the id of the request that caused the event.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

func (e *Event) Marshal() ([]byte, error) { return json.Marshal(e) }

// DecodeData unmarshals the payload into target.
func (e *Event) DecodeData(target any) error {
	return json.Unmarshal(e.Data, target)
}
