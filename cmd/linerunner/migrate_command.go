package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/linerunner/internal/infrastructure/database"
	"github.com/johnquangdev/linerunner/pkg/config"
)

func newMigrateCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "Migrations directory (defaults to DB_MIGRATIONS_DIR)")

	migrationsDir := func(cfg *config.Config) string {
		if dir != "" {
			return dir
		}
		return cfg.Database.Migrations
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadEnv()
			if err != nil {
				return err
			}
			db, err := database.NewPostgresDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)
			return database.Migrate(db, migrationsDir(cfg))
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 0 {
				return fmt.Errorf("--steps must not be negative")
			}
			cfg, err := config.LoadEnv()
			if err != nil {
				return err
			}
			db, err := database.NewPostgresDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)
			_, err = database.Rollback(db, migrationsDir(cfg), steps)
			return err
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back (0 for all)")

	cmd.AddCommand(up, down)
	return cmd
}
