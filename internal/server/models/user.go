// Серверные модели пользователя и его сессии
package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout формат даты рождения во входящих запросах и в ответах.
const DateLayout = "2006-01-02"

// User — учётная запись пользователя.
//
// Username необязателен, но уникален, если задан.
// DOB равен nil, если дата рождения не указана.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     *string
	PasswordHash string
	Name         string
	DOB          *time.Time
	Bio          string
	Interests    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileUpdate — поля, которые перезаписывает страница профиля.
type ProfileUpdate struct {
	Name      string
	DOB       *time.Time
	Email     string
	Bio       string
	Interests string
}

// SettingsUpdate — поля, которые перезаписывает страница настроек.
type SettingsUpdate struct {
	Username *string
	Name     string
	DOB      *time.Time
}

// Session — refresh-сессия пользователя.
type Session struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	ReplacedBy *uuid.UUID
}

// Handle возвращает username, а если он не задан — id пользователя.
// По нему пользователя находят на странице переписки. Email наружу не отдаётся.
func (u *User) Handle() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return u.ID.String()
}
