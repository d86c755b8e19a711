package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EventType
		expected string
	}{
		{"created", EventTypeCreated, "created"},
		{"updated", EventTypeUpdated, "updated"},
		{"deleted", EventTypeDeleted, "deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestEntityType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EntityType
		expected string
	}{
		{"bill", EntityTypeBill, "bill"},
		{"template", EntityTypeTemplate, "template"},
		{"reminder", EntityTypeReminder, "reminder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     1,
		"name":   "Electric",
		"amount": "100.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeBill, payload)
	after := time.Now()

	assert.Equal(t, "bill.created", evt.Type)
	assert.Equal(t, EntityTypeBill, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_JSON_Serialization(t *testing.T) {
	fixedTime := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	payload := map[string]interface{}{
		"id":     float64(1),
		"name":   "Electric",
		"amount": "100.00",
	}

	evt := Event{
		Type:      "bill.created",
		Entity:    EntityTypeBill,
		Payload:   payload,
		Timestamp: fixedTime,
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded Event
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Entity, decoded.Entity)
	assert.Equal(t, fixedTime.UTC(), decoded.Timestamp.UTC())

	// Payload should be preserved
	decodedPayload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), decodedPayload["id"])
	assert.Equal(t, "Electric", decodedPayload["name"])
	assert.Equal(t, "100.00", decodedPayload["amount"])
}

func TestEvent_ToJSON(t *testing.T) {
	payload := map[string]interface{}{
		"id": float64(42),
	}

	evt := NewEvent(EventTypeUpdated, EntityTypeBill, payload)

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// Verify it's valid JSON
	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "bill.updated", decoded["type"])
	assert.Equal(t, "bill", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestBillEvent_Helpers(t *testing.T) {
	billPayload := map[string]interface{}{
		"id":     float64(1),
		"name":   "Rent",
		"amount": "1200.00",
	}

	t.Run("BillCreated", func(t *testing.T) {
		evt := BillCreated(billPayload)
		assert.Equal(t, "bill.created", evt.Type)
		assert.Equal(t, EntityTypeBill, evt.Entity)
		assert.Equal(t, billPayload, evt.Payload)
	})

	t.Run("BillDeleted", func(t *testing.T) {
		evt := BillDeleted(billPayload)
		assert.Equal(t, "bill.deleted", evt.Type)
	})

	t.Run("BillPaid", func(t *testing.T) {
		evt := BillPaid(billPayload)
		assert.Equal(t, "bill.paid", evt.Type)
	})
}

func TestDomainEvent_Types(t *testing.T) {
	assert.Equal(t, "template.applied", TemplateApplied(nil).Type)
	assert.Equal(t, "template.created", TemplateCreated(nil).Type)
	assert.Equal(t, "credit.updated", CreditUpdated(nil).Type)
	assert.Equal(t, "reminder.due", ReminderDue(nil).Type)
	assert.Equal(t, EntityTypeReminder, ReminderDue(nil).Entity)
}
