package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	EventTypePaid    EventType = "paid"
	EventTypeApplied EventType = "applied"
	EventTypeDue     EventType = "due"
	EventTypeReady   EventType = "ready"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeBill     EntityType = "bill"
	EntityTypeTemplate EntityType = "template"
	EntityTypeCredit   EntityType = "credit"
	EntityTypeReminder EntityType = "reminder"
	EntityTypeProfile  EntityType = "profile"
	EntityTypeSession  EntityType = "session"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "bill.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "bill"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// BillCreated creates a bill.created event
func BillCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeBill, payload)
}

// BillUpdated creates a bill.updated event
func BillUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBill, payload)
}

// BillDeleted creates a bill.deleted event
func BillDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeBill, payload)
}

// BillPaid creates a bill.paid event, sent for both paid and unpaid transitions
func BillPaid(payload interface{}) Event {
	return NewEvent(EventTypePaid, EntityTypeBill, payload)
}

func TemplateCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTemplate, payload)
}

func TemplateDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTemplate, payload)
}

// TemplateApplied creates a template.applied event
func TemplateApplied(payload interface{}) Event {
	return NewEvent(EventTypeApplied, EntityTypeTemplate, payload)
}

// CreditUpdated creates a credit.updated event
func CreditUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeCredit, payload)
}

// ReminderDue creates a reminder.due event
func ReminderDue(payload interface{}) Event {
	return NewEvent(EventTypeDue, EntityTypeReminder, payload)
}

// ProfileUpdated creates a profile.updated event
func ProfileUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeProfile, payload)
}

// SessionReadyPayload greets a freshly connected client with the reminders
// that are already due, so it does not wait for the next worker scan
type SessionReadyPayload struct {
	ProfileID int32       `json:"profileId"`
	ClientID  string      `json:"clientId"`
	Reminders interface{} `json:"reminders"`
}

// SessionReady creates a session.ready event
func SessionReady(payload SessionReadyPayload) Event {
	return NewEvent(EventTypeReady, EntityTypeSession, payload)
}
