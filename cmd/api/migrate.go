package main

import (
	"errors"
	"fmt"

	pg "pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/platform/logger"

	"github.com/spf13/cobra"
)

var errNoDSN = errors.New("db_dsn is required")

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withMigrator(func(m *pg.Migrator) error { return m.Up() })
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withMigrator(func(m *pg.Migrator) error { return m.Down() })
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(func(m *pg.Migrator) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", v, dirty)
			return nil
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}

func withMigrator(fn func(*pg.Migrator) error) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer syncLogger(log)

	if cfg.DB.DSN == "" {
		return errNoDSN
	}
	m, err := pg.NewMigrator(cfg.DB.DSN, log)
	if err != nil {
		return err
	}
	return errors.Join(fn(m), m.Close())
}

func migrateUp(dsn string, log logger.Logger) error {
	m, err := pg.NewMigrator(dsn, log)
	if err != nil {
		return err
	}
	return errors.Join(m.Up(), m.Close())
}
