package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

// MembershipsRepository — единственный источник правды о членстве
// пользователей в клубах (таблица memberships).
type MembershipsRepository struct {
	db *sql.DB
}

func NewMembershipsRepository(db *sql.DB) *MembershipsRepository {
	return &MembershipsRepository{db: db}
}

// Add добавляет пару (user, club). Повторное вступление ничего не меняет,
// added=false в этом случае.
func (r *MembershipsRepository) Add(ctx context.Context, userID uuid.UUID, clubID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships (user_id, club_id)
		 VALUES ($1,$2)
		 ON CONFLICT (user_id, club_id) DO NOTHING`,
		userID, clubID,
	)
	if err != nil {
		return false, mapErr("insert membership", err, serr.ErrClubNotFound)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapErr("insert membership", err, serr.ErrClubNotFound)
	}
	return n > 0, nil
}

// Remove удаляет пару (user, club). Отсутствие членства — не ошибка.
func (r *MembershipsRepository) Remove(ctx context.Context, userID uuid.UUID, clubID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE user_id=$1 AND club_id=$2`,
		userID, clubID,
	)
	if err != nil {
		return false, mapErr("delete membership", err, serr.ErrNotFound)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapErr("delete membership", err, serr.ErrNotFound)
	}
	return n > 0, nil
}

func (r *MembershipsRepository) IsMember(ctx context.Context, userID uuid.UUID, clubID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM memberships WHERE user_id=$1 AND club_id=$2)`,
		userID, clubID,
	).Scan(&ok)
	if err != nil {
		return false, mapErr("select membership", err, serr.ErrNotFound)
	}
	return ok, nil
}

// ListForUser возвращает клубы пользователя в порядке вступления.
func (r *MembershipsRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.MemberClub, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.description, c.created_at, m.joined_at
		   FROM memberships m
		   JOIN clubs c ON c.id = m.club_id
		  WHERE m.user_id=$1
		  ORDER BY m.joined_at, c.id`,
		userID,
	)
	if err != nil {
		return nil, mapErr("list memberships", err, serr.ErrInternal)
	}
	defer rows.Close()

	clubs := make([]models.MemberClub, 0)
	for rows.Next() {
		var mc models.MemberClub
		if err := rows.Scan(&mc.ID, &mc.Name, &mc.Description, &mc.CreatedAt, &mc.JoinedAt); err != nil {
			return nil, mapErr("scan membership", err, serr.ErrInternal)
		}
		clubs = append(clubs, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("iterate memberships", err, serr.ErrInternal)
	}
	return clubs, nil
}

// ListAvailable возвращает клубы, в которых пользователь ещё не состоит.
func (r *MembershipsRepository) ListAvailable(ctx context.Context, userID uuid.UUID) ([]models.Club, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.description, c.created_at
		   FROM clubs c
		  WHERE NOT EXISTS (
		        SELECT 1 FROM memberships m
		         WHERE m.club_id = c.id AND m.user_id = $1)
		  ORDER BY c.name`,
		userID,
	)
	if err != nil {
		return nil, mapErr("list available clubs", err, serr.ErrInternal)
	}
	defer rows.Close()

	return scanClubs(rows)
}
