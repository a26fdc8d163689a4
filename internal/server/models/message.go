package models

import (
	"time"

	"github.com/google/uuid"
)

// Message — одно сообщение между двумя пользователями.
type Message struct {
	ID          int64
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Body        string
	CreatedAt   time.Time
}

// Conversation — сводка диалога для страницы /messages.
// PeerHandle — username собеседника, а если его нет — его id.
type Conversation struct {
	PeerID      uuid.UUID
	PeerHandle  string
	PeerName    string
	LastMessage string
	LastAt      time.Time
}

// Notification — уведомление пользователя.
type Notification struct {
	ID        int64
	UserID    uuid.UUID
	Text      string
	CreatedAt time.Time
	ReadAt    *time.Time
}
