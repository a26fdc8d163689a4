package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

// SessionsRepository отвечает за хранение refresh-сессий пользователя.
//
// Используется для:
//   - хранения refresh-токенов (в виде хэшей)
//   - refresh token rotation
//   - logout (отзыв всех сессий пользователя)
type SessionsRepository struct {
	db *sql.DB
}

func NewSessionsRepository(db *sql.DB) *SessionsRepository {
	return &SessionsRepository{db: db}
}

// Create создаёт новую refresh-сессию и возвращает её id.
func (r *SessionsRepository) Create(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO sessions (user_id, refresh_hash, expires_at)
		 VALUES ($1,$2,$3)
		 RETURNING id`,
		userID, refreshHash, expiresAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, mapErr("insert session", err, serr.ErrUserNotFound)
	}
	return id, nil
}

// GetByRefreshHash возвращает сессию по хэшу refresh-токена.
//
// Неизвестный хэш -> ErrUnauthorized.
func (r *SessionsRepository) GetByRefreshHash(ctx context.Context, refreshHash []byte) (models.Session, error) {
	var (
		s        models.Session
		revoked  sql.NullTime
		replaced sql.NullString
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, expires_at, revoked_at, replaced_by
		   FROM sessions
		  WHERE refresh_hash=$1`,
		refreshHash,
	).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &revoked, &replaced)
	if err != nil {
		return models.Session{}, mapErr("select session", err, serr.ErrUnauthorized)
	}

	if revoked.Valid {
		t := revoked.Time
		s.RevokedAt = &t
	}
	if replaced.Valid {
		if id, e := uuid.Parse(replaced.String); e == nil {
			s.ReplacedBy = &id
		}
	}
	return s, nil
}

// RevokeAndReplace отзывает старую сессию и помечает её заменённой новой.
func (r *SessionsRepository) RevokeAndReplace(ctx context.Context, oldID, newID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions
		    SET revoked_at = now(),
		        replaced_by = $2
		  WHERE id = $1
		    AND revoked_at IS NULL`,
		oldID, newID,
	)
	return mapErr("revoke session", err, serr.ErrNotFound)
}

// RevokeAllForUser отзывает все активные сессии пользователя (logout).
func (r *SessionsRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions
		    SET revoked_at = now()
		  WHERE user_id = $1
		    AND revoked_at IS NULL`,
		userID,
	)
	return mapErr("revoke user sessions", err, serr.ErrNotFound)
}
