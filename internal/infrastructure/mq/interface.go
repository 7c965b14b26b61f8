// Package mq publishes moderation events (blocks, reports, account
// activation changes) to an event stream.
package mq

import (
	"context"
	"time"
)

// Moderation event types.
const (
	EventUserBlocked       = "user_blocked"
	EventUserReported      = "user_reported"
	EventUserStatusToggled = "user_status_toggled"
)

// ModerationEvent is one record on the moderation stream.
type ModerationEvent struct {
	Type     string    `json:"type"`
	ActorID  string    `json:"actor_id"`
	TargetID uint      `json:"target_id"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

// EventPublisher is implemented by the kafka and log publishers.
// Publish failures never undo the action that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event ModerationEvent) error
	Close() error
}
