package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/repository"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

// NewClubCmd — группа команд для справочника клубов.
func NewClubCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "club",
		Short: "Клубы: создание и список",
	}
	cmd.AddCommand(newClubAddCmd(app))
	cmd.AddCommand(newClubListCmd(app))
	return cmd
}

func newClubAddCmd(app *App) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Создать клуб",
		Long: `Создать клуб.

Пример:
  clubctl club add --name Chess --description "Weekly games"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return errors.New("club name is empty")
			}
			// имя клуба это сегмент пути /{club}
			if strings.Contains(name, "/") {
				return errors.New("club name must not contain '/'")
			}

			db, err := app.DB()
			if err != nil {
				return err
			}
			club, err := repository.NewClubsRepository(db).Create(cmd.Context(), name, strings.TrimSpace(description))
			if err != nil {
				if errors.Is(err, serr.ErrAlreadyExists) {
					return fmt.Errorf("club %q already exists", name)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "club created: id=%d name=%s\n", club.ID, club.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "club name")
	cmd.Flags().StringVar(&description, "description", "", "club description")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newClubListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Список клубов",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.DB()
			if err != nil {
				return err
			}
			clubs, err := repository.NewClubsRepository(db).List(cmd.Context())
			if err != nil {
				return err
			}
			if len(clubs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no clubs")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
			for _, c := range clubs {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Name, c.Description)
			}
			return tw.Flush()
		},
	}
}
