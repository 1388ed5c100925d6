package server

import (
	"context"
	"log/slog"
	"time"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/notifications"
	"ideahub/internal/observability"
)

const publishTimeout = 2 * time.Second

// publishUserEvent delivers an event to every connection of userID. With
// Redis configured the subscriber fans it out on each instance, including
// this one, so local delivery only happens when publishing is unavailable.
func (s *Server) publishUserEvent(userID uint, eventType string, payload any) {
	message, ok := encodeEvent(eventType, payload)
	if !ok {
		return
	}

	if s.notifier.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		err := s.notifier.PublishUser(ctx, userID, message)
		if err == nil {
			return
		}
		middleware.Logger.Warn("failed to publish user event",
			slog.String("event_type", eventType), slog.Any("user_id", userID), slog.String("error", err.Error()))
	}
	s.hub.Broadcast(userID, message)
}

// publishBroadcastEvent delivers an event to every connected client.
func (s *Server) publishBroadcastEvent(eventType string, payload any) {
	message, ok := encodeEvent(eventType, payload)
	if !ok {
		return
	}

	if s.notifier.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		err := s.notifier.PublishBroadcast(ctx, message)
		if err == nil {
			return
		}
		middleware.Logger.Warn("failed to publish broadcast event",
			slog.String("event_type", eventType), slog.String("error", err.Error()))
	}
	s.hub.BroadcastAll(message)
}

func (s *Server) publishReaction(ideaID uint, likes int64) {
	s.publishBroadcastEvent(notifications.EventIdeaReactionUpdated, map[string]any{
		"idea_id": ideaID,
		"likes":   likes,
	})
}

func encodeEvent(eventType string, payload any) (string, bool) {
	message, err := notifications.EncodeEvent(eventType, payload)
	if err != nil {
		middleware.Logger.Error("failed to encode event",
			slog.String("event_type", eventType), slog.String("error", err.Error()))
		return "", false
	}
	observability.WebSocketEventsTotal.WithLabelValues(eventType).Inc()
	return message, true
}

func ideaEventPayload(idea *models.Idea) map[string]any {
	return map[string]any{
		"id":       idea.ID,
		"title":    idea.Title,
		"owner_id": idea.OwnerID,
		"likes":    idea.Likes,
	}
}
