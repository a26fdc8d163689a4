package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

// MessagesRepository хранит личные сообщения между пользователями.
type MessagesRepository struct {
	db *sql.DB
}

func NewMessagesRepository(db *sql.DB) *MessagesRepository {
	return &MessagesRepository{db: db}
}

func (r *MessagesRepository) Create(ctx context.Context, senderID, recipientID uuid.UUID, body string) (models.Message, error) {
	m := models.Message{SenderID: senderID, RecipientID: recipientID, Body: body}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO messages (sender_id, recipient_id, body)
		 VALUES ($1,$2,$3)
		 RETURNING id, created_at`,
		senderID, recipientID, body,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return models.Message{}, mapErr("insert message", err, serr.ErrUserNotFound)
	}
	return m, nil
}

// ListBetween возвращает переписку двух пользователей в порядке (created_at, id).
func (r *MessagesRepository) ListBetween(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sender_id, recipient_id, body, created_at
		   FROM messages
		  WHERE (sender_id=$1 AND recipient_id=$2)
		     OR (sender_id=$2 AND recipient_id=$1)
		  ORDER BY created_at, id`,
		a, b,
	)
	if err != nil {
		return nil, mapErr("list messages", err, serr.ErrInternal)
	}
	defer rows.Close()

	msgs := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.CreatedAt); err != nil {
			return nil, mapErr("scan message", err, serr.ErrInternal)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("iterate messages", err, serr.ErrInternal)
	}
	return msgs, nil
}

// ListConversations возвращает по одному последнему сообщению на собеседника,
// свежие диалоги первыми.
func (r *MessagesRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT peer_id, peer_handle, peer_name, body, created_at FROM (
		     SELECT DISTINCT ON (m.peer_id)
		            m.peer_id,
		            COALESCE(u.username, u.id::text) AS peer_handle,
		            u.name AS peer_name,
		            m.body,
		            m.created_at
		       FROM (SELECT CASE WHEN sender_id=$1 THEN recipient_id ELSE sender_id END AS peer_id,
		                    body, created_at, id
		               FROM messages
		              WHERE sender_id=$1 OR recipient_id=$1) m
		       JOIN users u ON u.id = m.peer_id
		      ORDER BY m.peer_id, m.created_at DESC, m.id DESC
		 ) last
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, mapErr("list conversations", err, serr.ErrInternal)
	}
	defer rows.Close()

	convs := make([]models.Conversation, 0)
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.PeerID, &c.PeerHandle, &c.PeerName, &c.LastMessage, &c.LastAt); err != nil {
			return nil, mapErr("scan conversation", err, serr.ErrInternal)
		}
		convs = append(convs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("iterate conversations", err, serr.ErrInternal)
	}
	return convs, nil
}
