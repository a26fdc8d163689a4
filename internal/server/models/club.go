package models

import (
	"time"

	"github.com/google/uuid"
)

// Club — клуб. Создаётся только через clubctl, для веб-приложения только чтение.
type Club struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// Membership — строка таблицы memberships, пара (user, club) уникальна.
type Membership struct {
	UserID   uuid.UUID
	ClubID   int64
	JoinedAt time.Time
}

// MemberClub — клуб вместе с датой вступления текущего пользователя.
type MemberClub struct {
	Club
	JoinedAt time.Time
}
