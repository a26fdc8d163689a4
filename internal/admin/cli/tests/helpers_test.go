package tests

import (
	"bytes"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/clubhouse/internal/admin/cli"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Migrations: config.MigrationsConfig{Enabled: true, Path: "file://migrations/postgres"},
		Password: config.PasswordConfig{
			Hasher:    "argon2id",
			MinLength: 8,
			Argon2: config.Argon2Config{
				Time:      1,
				MemoryKiB: 8 * 1024,
				Threads:   1,
				KeyLen:    32,
				SaltLen:   16,
			},
		},
	}
}

// withDeps подменяет OpenDB на sqlmock и возвращает всё на место после теста.
func withDeps(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	origOpen := cli.OpenDB
	origMigrate := cli.RunMigrations
	origRead := cli.ReadPassword
	t.Cleanup(func() {
		cli.OpenDB = origOpen
		cli.RunMigrations = origMigrate
		cli.ReadPassword = origRead
	})

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	cli.OpenDB = func(config.DBConfig) (*sql.DB, error) { return db, nil }

	return mock
}

// run выполняет clubctl с аргументами и уже загруженным конфигом.
func run(args ...string) (string, error) {
	root := cli.NewRootCmd(&cli.App{Cfg: testConfig()}, "1.0.0", "2026-10-19")

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func stubPassword(pw string) {
	cli.ReadPassword = func(*cobra.Command, bool) (string, error) { return pw, nil }
}
