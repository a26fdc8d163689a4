package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/repository"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/service"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

// NewUserCmd — группа команд для учётных записей.
func NewUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Пользователи",
	}
	cmd.AddCommand(newUserPasswdCmd(app))
	return cmd
}

// newUserPasswdCmd меняет пароль пользователя и отзывает все его
// refresh-сессии, чтобы старые входы перестали работать.
func newUserPasswdCmd(app *App) *cobra.Command {
	var (
		email     string
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Сменить пароль пользователя",
		Long: `Сменить пароль пользователя.

Пароль читается с терминала без эха или из stdin (--password-stdin).

Пример:
  clubctl user passwd --email ann@example.com
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.ToLower(strings.TrimSpace(email))

			password, err := ReadPassword(cmd, fromStdin)
			if err != nil {
				return err
			}
			if len(password) < app.Cfg.Password.MinLength {
				return fmt.Errorf("password must be at least %d characters", app.Cfg.Password.MinLength)
			}

			db, err := app.DB()
			if err != nil {
				return err
			}
			users := repository.NewUsersRepository(db)
			sessions := repository.NewSessionsRepository(db)

			userID, _, err := users.GetByEmail(cmd.Context(), email)
			if err != nil {
				if errors.Is(err, serr.ErrNotFound) {
					return fmt.Errorf("user %s not found", email)
				}
				return err
			}

			hash, err := service.NewHasher(app.Cfg.Password).Hash(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			if err := users.UpdatePasswordByEmail(cmd.Context(), email, hash); err != nil {
				return err
			}
			if err := sessions.RevokeAllForUser(cmd.Context(), userID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read new password from stdin")
	cmd.MarkFlagRequired("email")

	return cmd
}

func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := strings.TrimSpace(string(b))
		if pw == "" {
			return "", errors.New("empty password on stdin")
		}
		return pw, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password-stdin")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "New password: ")
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	pw := strings.TrimSpace(string(pwBytes))
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}
