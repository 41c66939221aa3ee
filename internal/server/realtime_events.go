package server

import (
	"context"
	"encoding/json"
	"log"

	"inkwell/internal/models"
	"inkwell/internal/observability"
)

// Event type constants prevent typos in event names.
const (
	EventPostCreated    = "post_created"
	EventPostLiked      = "post_liked"
	EventCommentCreated = "comment_created"
)

// publishFeedEvent fans a feed event out to every connected client. Events
// reach the local hub directly and other instances through Redis pub/sub.
func (s *Server) publishFeedEvent(eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)
	observability.FeedEventsTotal.WithLabelValues(eventType).Inc()
	if s.notifier != nil {
		// Local clients receive the event through the hub's feed subscriber
		if err := s.notifier.PublishFeed(context.Background(), message); err != nil {
			log.Printf("failed to publish %s feed event: %v", eventType, err)
		}
		return
	}
	if s.hub != nil {
		s.hub.BroadcastAll(message)
	}
}

func userSummary(user models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":              user.ID,
		"username":        user.Username,
		"profile_picture": user.ProfilePicture,
	}
}
