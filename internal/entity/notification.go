package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelInfo    NotificationLevel = "info"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

// Notification is the user-facing toast produced by a create/update/delete.
type Notification struct {
	ID        string            `json:"id"`
	SessionID string            `json:"session_id,omitempty"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewNotification(sessionID string, level NotificationLevel, message string) Notification {
	return Notification{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}
}
