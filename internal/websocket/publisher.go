package websocket

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to all clients connected to the specified profile
	Publish(profileID int32, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the profile
func (h *Hub) Publish(profileID int32, event Event) {
	h.Broadcast(profileID, event)
}

// SendEvent marshals an event and queues it for a single client
func SendEvent(client ClientInterface, event Event) error {
	data, err := event.ToJSON()
	if err != nil {
		return err
	}
	return client.Send(data)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(profileID int32, event Event) {}
