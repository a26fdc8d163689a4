package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCmd применяет миграции из migrations.path конфига
// (или из --path). Флаг migrations.enabled здесь не учитывается.
func NewMigrateCmd(app *App) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции БД",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = app.Cfg.Migrations.Path
			}
			if path == "" {
				return fmt.Errorf("migrations path is empty; set migrations.path or --path")
			}

			db, err := app.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(db, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied from %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "migrations source URL, e.g. file://migrations/postgres")
	return cmd
}
