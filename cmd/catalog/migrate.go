package main

import (
	"fmt"
	"io/fs"

	"github.com/abgdnv/catalog/internal/store/migrations"
	"github.com/abgdnv/catalog/pkg/bootstrap"
	"github.com/abgdnv/catalog/pkg/migrate"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return runMigration("up", migrate.Up)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return runMigration("down", migrate.Down)
			},
		},
	)
	return cmd
}

func runMigration(direction string, apply func(fsys fs.FS, databaseURL string) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Storage.UsesPostgres() {
		return fmt.Errorf("migrations need the postgres storage driver, got %q", cfg.Storage.Driver)
	}
	logger := bootstrap.NewLogger(cfg.Log)

	if err := apply(migrations.FS, cfg.Database.URL); err != nil {
		return err
	}
	logger.Info("Migrations applied", "direction", direction)
	return nil
}
