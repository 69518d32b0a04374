package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-petr/pet-split/internal/middleware"
	"github.com/go-petr/pet-split/pkg/configpkg"
	"github.com/go-petr/pet-split/pkg/dbpkg"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or revert the database schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(dbpkg.Up), string(dbpkg.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := configpkg.Load(rootOpts.ConfigPath)
			if err != nil {
				return err
			}

			logger := middleware.CreateLogger(config)

			db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
			if err != nil {
				return fmt.Errorf("cannot connect to database: %w", err)
			}
			defer db.Close()

			dir := dbpkg.Direction(args[0])
			if err := dbpkg.Migrate(db, config.MigrationURL, dir); err != nil {
				return err
			}

			logger.Info().Str("direction", string(dir)).Msg("migrations applied")

			return nil
		},
	}
}
