package tests

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

// Успех
func TestSessionsRepository_Create_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewSessionsRepository(db)

	userID := uuid.New()
	sessID := uuid.New()
	hash := []byte("hash")
	exp := time.Now().Add(time.Hour)

	mock.ExpectQuery(`INSERT INTO sessions`).
		WithArgs(userID.String(), hash, exp).
		WillReturnRows(
			sqlmock.NewRows([]string{"id"}).AddRow(sessID.String()),
		)

	id, err := repo.Create(context.Background(), userID, hash, exp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id != sessID {
		t.Fatalf("expected %v, got %v", sessID, id)
	}
}

// Конфликт по хэшу
func TestSessionsRepository_Create_Conflict(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewSessionsRepository(db)

	pgErr := &pgconn.PgError{
		Code: "23505", // unique_violation
	}

	mock.ExpectQuery(`INSERT INTO sessions`).
		WillReturnError(pgErr)

	_, err := repo.Create(
		context.Background(),
		uuid.New(),
		[]byte("hash"),
		time.Now(),
	)

	if err != serr.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

// Пользователь уже удалён
func TestSessionsRepository_Create_UserGone(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewSessionsRepository(db)

	mock.ExpectQuery(`INSERT INTO sessions`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Create(context.Background(), uuid.New(), []byte("hash"), time.Now())

	if err != serr.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// Найден рефреш
func TestSessionsRepository_GetByRefreshHash_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewSessionsRepository(db)

	sessID := uuid.New()
	userID := uuid.New()
	exp := time.Now()

	mock.ExpectQuery(`SELECT id, user_id, expires_at`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "expires_at", "revoked_at", "replaced_by"},
		).AddRow(sessID.String(), userID.String(), exp, nil, nil))

	s, err := repo.GetByRefreshHash(context.Background(), []byte("hash"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.ID != sessID || s.UserID != userID {
		t.Fatal("unexpected ids")
	}
	if s.RevokedAt != nil || s.ReplacedBy != nil {
		t.Fatal("expected active session")
	}
}

// Отозванная сессия
func TestSessionsRepository_GetByRefreshHash_Revoked(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewSessionsRepository(db)

	next := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT id, user_id, expires_at`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "expires_at", "revoked_at", "replaced_by"},
		).AddRow(uuid.NewString(), uuid.NewString(), now, now, next.String()))

	s, err := repo.GetByRefreshHash(context.Background(), []byte("hash"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.RevokedAt == nil || s.ReplacedBy == nil || *s.ReplacedBy != next {
		t.Fatal("expected revoked session replaced by next")
	}
}

// Не найден рефреш
func TestSessionsRepository_GetByRefreshHash_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewSessionsRepository(db)

	mock.ExpectQuery(`SELECT id, user_id, expires_at`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByRefreshHash(context.Background(), []byte("x"))

	if err != serr.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// отозван и заменён
func TestSessionsRepository_RevokeAndReplace_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewSessionsRepository(db)

	mock.ExpectExec(`UPDATE sessions`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RevokeAndReplace(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// logout: все сессии юзера
func TestSessionsRepository_RevokeAllForUser_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewSessionsRepository(db)

	userID := uuid.New()

	mock.ExpectExec(`UPDATE sessions`).
		WithArgs(userID.String()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.RevokeAllForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
