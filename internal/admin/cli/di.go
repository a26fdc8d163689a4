package cli

import (
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/config"
)

// для тестов
var (
	OpenDB        = config.Open
	RunMigrations = config.Migrate
	ReadPassword  = func(cmd *cobra.Command, fromStdin bool) (string, error) {
		return readPassword(cmd, fromStdin)
	}
)
