package notifications

import (
	"encoding/json"
	"time"
)

// Realtime event types published to websocket clients.
const (
	EventIdeaCreated         = "idea_created"
	EventIdeaUpdated         = "idea_updated"
	EventIdeaDeleted         = "idea_deleted"
	EventIdeaReactionUpdated = "idea_reaction_updated"
	EventFavoriteAdded       = "favorite_added"
	EventFavoriteRemoved     = "favorite_removed"
	EventMessagesDropped     = "messages_dropped"
)

// Event is the envelope written to websocket clients.
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// EncodeEvent renders an event envelope as JSON.
func EncodeEvent(eventType string, payload any) (string, error) {
	raw, err := json.Marshal(Event{Type: eventType, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
