package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dbadapter "taskboard/internal/adapter/db"
	"taskboard/internal/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations for the configured driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()

			db, err := dbadapter.ConnectDB(cfg)
			if err != nil {
				return fmt.Errorf("connect to %s: %w", cfg.DbDriver, err)
			}
			defer db.Close()

			if err := dbadapter.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			zap.L().Info("migrations applied", zap.String("driver", db.DriverName()))
			return nil
		},
	}
}
