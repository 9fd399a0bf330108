package main

import (
	"context"
	"fmt"
	"time"

	"github.com/georgemunganga/bakery-backend/internal/config"
	"github.com/georgemunganga/bakery-backend/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables",
	Long: `Applies the Postgres schema when DATABASE_URL is set, and the SQLite
cart schema when CART_STORE=sqlite. Statements are idempotent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		if cfg.DatabaseURL != "" {
			db, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := storage.MigratePostgres(ctx, db); err != nil {
				return err
			}
			logger.Info("postgres schema applied")
		}
		if cfg.CartStore == config.CartStoreSQLite {
			// OpenSQLite applies its schema on open.
			db, err := storage.OpenSQLite(ctx, cfg.CartStorePath)
			if err != nil {
				return err
			}
			defer db.Close()
			logger.Info("sqlite cart schema applied", zap.String("path", cfg.CartStorePath))
		}
		if cfg.DatabaseURL == "" && cfg.CartStore != config.CartStoreSQLite {
			return fmt.Errorf("nothing to migrate: set DATABASE_URL or CART_STORE=sqlite")
		}
		return nil
	},
}
