// Package models содержит модели HTTP API clubhouse, общие для сервера
// и clubctl: то, что уходит клиенту в JSON.
package models

import "time"

// User — профиль пользователя без хэша пароля.
//
// DOB в формате YYYY-MM-DD, nil если не указана.
type User struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Username  *string `json:"username,omitempty"`
	Name      string  `json:"name"`
	DOB       *string `json:"dob,omitempty"`
	Bio       string  `json:"bio"`
	Interests string  `json:"interests"`
}

// Club — клуб из справочника.
type Club struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// MemberClub — клуб пользователя с датой вступления.
type MemberClub struct {
	Club
	JoinedAt time.Time `json:"joined_at"`
}

// Message — сообщение переписки. Mine — отправлено текущим пользователем.
type Message struct {
	ID        int64     `json:"id"`
	Mine      bool      `json:"mine"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation — сводка диалога.
type Conversation struct {
	Peer        string    `json:"peer"`
	PeerName    string    `json:"peer_name"`
	LastMessage string    `json:"last_message"`
	LastAt      time.Time `json:"last_at"`
}

// Notification — уведомление пользователя.
type Notification struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// ProfileResponse — ответ страниц /profile и /settings.
type ProfileResponse struct {
	User  User   `json:"user"`
	Flash string `json:"flash,omitempty"`
}

// HomeResponse — ответ /home.
type HomeResponse struct {
	User  User         `json:"user"`
	Clubs []MemberClub `json:"clubs"`
}

// ClubsResponse — список клубов (/community).
type ClubsResponse struct {
	Clubs []Club `json:"clubs"`
}

// MemberClubsResponse — клубы пользователя (/my_community, /calendar).
type MemberClubsResponse struct {
	Clubs []MemberClub `json:"clubs"`
}

// ClubNamesResponse — имена клубов пользователя после выхода из клуба.
type ClubNamesResponse struct {
	Clubs []string `json:"clubs"`
}

// ClubPageResponse — страница клуба.
type ClubPageResponse struct {
	Club   Club `json:"club"`
	Member bool `json:"member"`
}

// ConversationsResponse — ответ /messages.
type ConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
}

// Peer — собеседник в переписке. Только публичные поля.
type Peer struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
}

// ThreadResponse — ответ /view_conversation/{sender}.
type ThreadResponse struct {
	Peer     Peer      `json:"peer"`
	Messages []Message `json:"messages"`
}

// NotificationsResponse — ответ /notifications.
type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}
