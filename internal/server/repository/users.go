package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

const userColumns = `id, email, username, password_hash, name, dob, bio, interests, created_at, updated_at`

// UsersRepository хранит учётные записи пользователей.
type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create сохраняет нового пользователя. Уникальность email проверяет
// ограничение в базе, дубль возвращается как ErrAlreadyExists.
func (r *UsersRepository) Create(ctx context.Context, u *models.User) (uuid.UUID, error) {
	var id uuid.UUID

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, name, dob)
		 VALUES ($1,$2,$3,$4)
		 RETURNING id`,
		u.Email, u.PasswordHash, u.Name, nullDate(u.DOB),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, mapErr("insert user", err, serr.ErrInternal)
	}

	return id, nil
}

// GetByEmail возвращает id и хэш пароля, этого достаточно для логина.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (uuid.UUID, string, error) {
	var (
		id   uuid.UUID
		hash string
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM users WHERE email=$1`,
		email,
	).Scan(&id, &hash)
	if err != nil {
		return uuid.Nil, "", mapErr("select user by email", err, serr.ErrNotFound)
	}

	return id, hash, nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`,
		id,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr("select user", err, serr.ErrUserNotFound)
	}
	return u, nil
}

func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username=$1`,
		username,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr("select user by username", err, serr.ErrUserNotFound)
	}
	return u, nil
}

// UpdateProfile перезаписывает name, dob, email, bio, interests одним запросом.
func (r *UsersRepository) UpdateProfile(ctx context.Context, id uuid.UUID, p models.ProfileUpdate) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE users
		    SET name=$2, dob=$3, email=$4, bio=$5, interests=$6, updated_at=now()
		  WHERE id=$1
		  RETURNING `+userColumns,
		id, p.Name, nullDate(p.DOB), p.Email, p.Bio, p.Interests,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr("update profile", err, serr.ErrUserNotFound)
	}
	return u, nil
}

// UpdateSettings перезаписывает username, name, dob.
func (r *UsersRepository) UpdateSettings(ctx context.Context, id uuid.UUID, s models.SettingsUpdate) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE users
		    SET username=$2, name=$3, dob=$4, updated_at=now()
		  WHERE id=$1
		  RETURNING `+userColumns,
		id, nullString(s.Username), s.Name, nullDate(s.DOB),
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr("update settings", err, serr.ErrUserNotFound)
	}
	return u, nil
}

// UpdatePasswordByEmail меняет хэш пароля, используется clubctl.
func (r *UsersRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash=$2, updated_at=now() WHERE email=$1`,
		email, passwordHash,
	)
	if err != nil {
		return mapErr("update password", err, serr.ErrUserNotFound)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr("update password", err, serr.ErrUserNotFound)
	}
	if n == 0 {
		return serr.ErrUserNotFound
	}
	return nil
}

// Delete удаляет пользователя вместе с его членством в клубах в одной транзакции.
//
// Сессии, сообщения и уведомления удаляет ON DELETE CASCADE.
func (r *UsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr("begin delete user", err, serr.ErrUserNotFound)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM memberships WHERE user_id=$1`, id); err != nil {
		return mapErr("delete memberships", err, serr.ErrUserNotFound)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return mapErr("delete user", err, serr.ErrUserNotFound)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr("delete user", err, serr.ErrUserNotFound)
	}
	if n == 0 {
		return serr.ErrUserNotFound
	}

	if err := tx.Commit(); err != nil {
		return mapErr("commit delete user", err, serr.ErrUserNotFound)
	}
	return nil
}

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var (
		u        models.User
		username sql.NullString
		dob      sql.NullTime
	)
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&username,
		&u.PasswordHash,
		&u.Name,
		&dob,
		&u.Bio,
		&u.Interests,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if username.Valid {
		s := username.String
		u.Username = &s
	}
	if dob.Valid {
		t := dob.Time
		u.DOB = &t
	}
	return &u, nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
