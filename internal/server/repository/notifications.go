package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

type NotificationsRepository struct {
	db *sql.DB
}

func NewNotificationsRepository(db *sql.DB) *NotificationsRepository {
	return &NotificationsRepository{db: db}
}

func (r *NotificationsRepository) Create(ctx context.Context, userID uuid.UUID, text string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, text) VALUES ($1,$2)`,
		userID, text,
	)
	return mapErr("insert notification", err, serr.ErrUserNotFound)
}

// ListForUser возвращает последние limit уведомлений, новые первыми.
func (r *NotificationsRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, text, created_at, read_at
		   FROM notifications
		  WHERE user_id=$1
		  ORDER BY created_at DESC, id DESC
		  LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, mapErr("list notifications", err, serr.ErrInternal)
	}
	defer rows.Close()

	list := make([]models.Notification, 0)
	for rows.Next() {
		var (
			n    models.Notification
			read sql.NullTime
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Text, &n.CreatedAt, &read); err != nil {
			return nil, mapErr("scan notification", err, serr.ErrInternal)
		}
		if read.Valid {
			t := read.Time
			n.ReadAt = &t
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("iterate notifications", err, serr.ErrInternal)
	}
	return list, nil
}

// MarkAllRead помечает непрочитанные уведомления прочитанными и возвращает их число.
func (r *NotificationsRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read_at=now() WHERE user_id=$1 AND read_at IS NULL`,
		userID,
	)
	if err != nil {
		return 0, mapErr("mark notifications read", err, serr.ErrInternal)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapErr("mark notifications read", err, serr.ErrInternal)
	}
	return n, nil
}
