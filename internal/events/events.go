// Package events carries change notifications from the services to the UI
// adapter. The core never touches presentation; it emits an event after each
// mutation and whoever renders subscribes here.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type identifies what changed.
type Type string

// Event types emitted by the services.
const (
	// TypeCardsChanged fires after any mutation of the card collection.
	TypeCardsChanged Type = "cards.changed"

	// TypeSettingsChanged fires after any settings category is updated.
	TypeSettingsChanged Type = "settings.changed"

	// TypeReviewsDue fires once per forgetting-curve sweep that reverted at
	// least one card, with the aggregate count. It is only emitted when
	// notifications are enabled.
	TypeReviewsDue Type = "reviews.due"
)

// Event is a single change notification.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what changed
	Type Type `json:"type"`

	// Payload contains type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// ReviewsDuePayload is the payload for TypeReviewsDue.
type ReviewsDuePayload struct {
	// Count is the number of cards the sweep moved back to Active.
	Count int `json:"count"`
}

// CardsChangedPayload is the payload for TypeCardsChanged.
type CardsChangedPayload struct {
	// Operation names the mutation ("add", "update", "delete", ...).
	Operation string `json:"operation"`

	// CardID is the affected card, zero for bulk operations.
	CardID int64 `json:"card_id,omitempty"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType Type, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		Payload:    payloadBytes,
		OccurredAt: time.Now(),
	}, nil
}

// Handler is implemented by components that react to change notifications.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *Event) error
}

// Emitter publishes events without knowledge of the subscribers.
type Emitter interface {
	// Emit publishes the given event to all registered handlers.
	Emit(ctx context.Context, event *Event) error
}
