package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

// MessagesService — личная переписка пользователей.
type MessagesService struct {
	users         UsersRepo
	messages      MessagesRepo
	notifications NotificationsRepo
}

func NewMessagesService(users UsersRepo, messages MessagesRepo, notifications NotificationsRepo) *MessagesService {
	return &MessagesService{users: users, messages: messages, notifications: notifications}
}

// Thread — переписка с одним собеседником.
type Thread struct {
	Peer     *models.User
	Messages []models.Message
}

// Sent — итог отправки сообщения.
// NotifyErr — ошибка записи уведомления получателю, сообщение при этом уже сохранено.
type Sent struct {
	Message   models.Message
	NotifyErr error
}

// Conversations — по одной сводке на собеседника, свежие первыми.
func (s *MessagesService) Conversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	return s.messages.ListConversations(ctx, userID)
}

// View возвращает переписку с пользователем handle (username или id).
// Ошибки: ErrUserNotFound.
func (s *MessagesService) View(ctx context.Context, userID uuid.UUID, handle string) (Thread, error) {
	peer, err := s.resolve(ctx, handle)
	if err != nil {
		return Thread{}, err
	}
	msgs, err := s.messages.ListBetween(ctx, userID, peer.ID)
	if err != nil {
		return Thread{}, err
	}
	return Thread{Peer: peer, Messages: msgs}, nil
}

// Send отправляет сообщение пользователю handle и уведомляет его.
// Ошибки: ErrEmptyMessage, ErrUserNotFound, ErrSelfMessage.
func (s *MessagesService) Send(ctx context.Context, userID uuid.UUID, handle, body string) (Sent, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Sent{}, serr.ErrEmptyMessage
	}
	peer, err := s.resolve(ctx, handle)
	if err != nil {
		return Sent{}, err
	}
	if peer.ID == userID {
		return Sent{}, serr.ErrSelfMessage
	}
	me, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Sent{}, err
	}

	msg, err := s.messages.Create(ctx, userID, peer.ID, body)
	if err != nil {
		return Sent{}, err
	}
	return Sent{
		Message:   msg,
		NotifyErr: s.notifications.Create(ctx, peer.ID, fmt.Sprintf("New message from %s", me.Handle())),
	}, nil
}

// resolve ищет собеседника по username, а пользователя без username по id.
// Любой промах отдаёт ErrUserNotFound.
func (s *MessagesService) resolve(ctx context.Context, handle string) (*models.User, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, serr.ErrUserNotFound
	}
	u, err := s.users.GetByUsername(ctx, handle)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, serr.ErrUserNotFound) {
		return nil, err
	}

	id, perr := uuid.Parse(handle)
	if perr != nil {
		return nil, serr.ErrUserNotFound
	}
	u, err = s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Username != nil && *u.Username != "" {
		return nil, serr.ErrUserNotFound
	}
	return u, nil
}
