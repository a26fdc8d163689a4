package tests

import (
	"database/sql"
	"database/sql/driver"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/clubhouse/internal/admin/cli"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/crypto"
)

func TestUserPasswd_OK(t *testing.T) {
	mock := withDeps(t)
	stubPassword("NewStrongPass1")

	id := uuid.New()
	var newHash string

	mock.ExpectQuery("SELECT id, password_hash FROM users WHERE email").
		WithArgs("ann@b.io").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}).AddRow(id.String(), "old-hash"))
	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("ann@b.io", hashCapture{dst: &newHash}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE sessions").
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectClose()

	out, err := run("user", "passwd", "--email", " Ann@B.io ")
	require.NoError(t, err)
	require.Contains(t, out, "password updated for ann@b.io")
	require.NoError(t, mock.ExpectationsWereMet())

	ok, err := crypto.VerifyPassword("NewStrongPass1", newHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUserPasswd_ShortPassword(t *testing.T) {
	mock := withDeps(t)
	stubPassword("short")

	_, err := run("user", "passwd", "--email", "ann@b.io")
	require.Error(t, err)
	require.Contains(t, err.Error(), "at least 8")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPasswd_UnknownUser(t *testing.T) {
	mock := withDeps(t)
	stubPassword("NewStrongPass1")

	mock.ExpectQuery("SELECT id, password_hash FROM users").
		WithArgs("ghost@b.io").
		WillReturnError(sql.ErrNoRows)

	_, err := run("user", "passwd", "--email", "ghost@b.io")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestReadPassword_FromStdin(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("NewStrongPass1\r\n"))

	pw, err := cli.ReadPassword(cmd, true)
	require.NoError(t, err)
	require.Equal(t, "NewStrongPass1", pw)
}

func TestReadPassword_EmptyStdin(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("\n"))

	_, err := cli.ReadPassword(cmd, true)
	require.Error(t, err)
}

// пробелы вокруг пароля срезаются так же, как при регистрации и входе
func TestReadPassword_StdinTrimsSpaces(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("  NewStrongPass1 \t\n"))

	pw, err := cli.ReadPassword(cmd, true)
	require.NoError(t, err)
	require.Equal(t, "NewStrongPass1", pw)
}

func TestReadPassword_BlankStdin(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(" \t \r\n"))

	_, err := cli.ReadPassword(cmd, true)
	require.Error(t, err)
}

// hashCapture принимает любой аргумент-строку и запоминает его.
type hashCapture struct {
	dst *string
}

func (h hashCapture) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	*h.dst = s
	return true
}
