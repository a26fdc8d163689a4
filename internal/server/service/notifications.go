package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
)

// NotificationsLimit — сколько последних уведомлений отдаёт /notifications.
const NotificationsLimit = 50

type NotificationsService struct {
	notifications NotificationsRepo
}

func NewNotificationsService(notifications NotificationsRepo) *NotificationsService {
	return &NotificationsService{notifications: notifications}
}

func (s *NotificationsService) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return s.notifications.ListForUser(ctx, userID, NotificationsLimit)
}

// MarkAllRead помечает все уведомления прочитанными и возвращает их число.
func (s *NotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}
