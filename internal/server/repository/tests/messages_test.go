package tests

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/repository"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

func TestMessagesRepository_Create_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewMessagesRepository(db)
	from, to := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO messages`).
		WithArgs(from.String(), to.String(), "hi").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), now))

	m, err := repo.Create(context.Background(), from, to, "hi")
	require.NoError(t, err)
	require.Equal(t, int64(10), m.ID)
	require.Equal(t, from, m.SenderID)
	require.Equal(t, "hi", m.Body)
}

// получатель удалён
func TestMessagesRepository_Create_RecipientGone(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewMessagesRepository(db)

	mock.ExpectQuery(`INSERT INTO messages`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Create(context.Background(), uuid.New(), uuid.New(), "hi")
	require.ErrorIs(t, err, serr.ErrUserNotFound)
}

func TestMessagesRepository_ListBetween(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewMessagesRepository(db)
	a, b := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM messages`).
		WithArgs(a.String(), b.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sender_id", "recipient_id", "body", "created_at"}).
			AddRow(int64(1), a.String(), b.String(), "hello", now).
			AddRow(int64(2), b.String(), a.String(), "hey", now.Add(time.Second)))

	msgs, err := repo.ListBetween(context.Background(), a, b)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, b, msgs[1].SenderID)
}

func TestMessagesRepository_ListConversations(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewMessagesRepository(db)
	me, peer := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT DISTINCT ON[\s\S]*COALESCE\(u\.username, u\.id::text\)`).
		WithArgs(me.String()).
		WillReturnRows(sqlmock.NewRows([]string{"peer_id", "peer_handle", "peer_name", "body", "created_at"}).
			AddRow(peer.String(), "bob", "Bob", "see you", now))

	convs, err := repo.ListConversations(context.Background(), me)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	require.Equal(t, peer, convs[0].PeerID)
	require.Equal(t, "bob", convs[0].PeerHandle)
	require.Equal(t, "see you", convs[0].LastMessage)
}
