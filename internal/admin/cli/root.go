// Package cli реализует административную утилиту clubctl.
//
// Клубы в веб-приложении только читаются, поэтому создаются здесь.
// Кроме того, clubctl применяет миграции и меняет пароль пользователя
// (замена нереализованного сброса пароля по почте).
//
// Точка входа пакета — функция Execute.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/config"
)

// App содержит состояние CLI, разделяемое между командами.
type App struct {
	// ConfigPath — путь к server.yaml, тот же конфиг, что у сервера.
	ConfigPath string
	// Cfg — загруженный конфиг. Если задан заранее (тесты), файл не читается.
	Cfg *config.Config

	db *sql.DB
}

// DB лениво открывает подключение к базе по конфигу.
func (a *App) DB() (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	if a.Cfg == nil {
		return nil, fmt.Errorf("config is not loaded")
	}
	db, err := OpenDB(a.Cfg.DB)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

// Close закрывает подключение, если оно открывалось.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// NewRootCmd создаёт root-команду clubctl и регистрирует подкоманды.
//
// В PersistentPreRunE читается .env (если есть) и конфиг сервера.
// Команде version конфиг не нужен.
func NewRootCmd(app *App, buildVersion, buildDate string) *cobra.Command {
	if app == nil {
		app = &App{}
	}

	cmd := &cobra.Command{
		Use:   "clubctl",
		Short: "clubctl — администрирование clubhouse",
		Long: `clubctl — администрирование clubhouse.

Команды:
  migrate      Применить миграции БД
  club add     Создать клуб
  club list    Список клубов
  user passwd  Сменить пароль пользователя
  version      Версия и дата сборки

Примеры:
  clubctl club add --name Chess --description "Weekly games"
  echo 'NewStrongPass1' | clubctl user passwd --email ann@example.com --password-stdin
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || app.Cfg != nil {
				return nil
			}
			// .env необязателен
			_ = godotenv.Load()

			cfg, err := config.Load(app.ConfigPath)
			if err != nil {
				return err
			}
			app.Cfg = cfg
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "./configs/server.yaml", "path to server.yaml")

	cmd.AddCommand(NewMigrateCmd(app))
	cmd.AddCommand(NewClubCmd(app))
	cmd.AddCommand(NewUserCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку команд. При ошибке печатает её в stderr
// и завершает процесс с кодом 1.
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(nil, buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
