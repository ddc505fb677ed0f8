package main

import (
	"context"
	"database/sql"
	"fmt"

	pg "pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/domain/users"
	"pet-adoption/internal/platform/logger"

	"github.com/spf13/cobra"
)

var adminFlags struct {
	email    string
	password string
	name     string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account, or promote an existing user",
	RunE:  runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.email, "email", "", "Admin email (required)")
	createAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "Admin password, min 8 chars (required for new accounts)")
	createAdminCmd.Flags().StringVar(&adminFlags.name, "name", "Administrator", "Display name")
	_ = createAdminCmd.MarkFlagRequired("email")
}

func runCreateAdmin(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer syncLogger(log)

	// En memoria no tendría sentido: se pierde al salir.
	if cfg.DB.DSN == "" {
		return errNoDSN
	}
	db, err := pg.Open(cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	return ensureAdmin(cmd.Context(), db, adminFlags.name, adminFlags.email, adminFlags.password, log)
}

// ensureAdmin es idempotente: crea la cuenta o la promueve a admin.
func ensureAdmin(ctx context.Context, db *sql.DB, name, email, password string, log logger.Logger) error {
	svc := users.NewService(pg.NewUsersRepo(db))
	u, created, err := svc.EnsureAdmin(ctx, users.RegisterInput{Name: name, Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info("admin ready", map[string]any{"user_id": u.ID, "email": u.Email, "created": created})
	return nil
}
