package cli

import (
	"fmt"

	"github.com/SAP-F-2025/quiz-session-service/internal/config"
	"github.com/SAP-F-2025/quiz-session-service/internal/utils"
	"github.com/SAP-F-2025/quiz-session-service/pkg"
	"github.com/spf13/cobra"
)

// NewMigrateCmd applies the schema to the configured postgres database.
func NewMigrateCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.StorageDriver != config.StorageDriverPostgres {
				return fmt.Errorf("migrate requires STORAGE_DRIVER=postgres, got %q", cfg.StorageDriver)
			}

			logger := utils.NewLogger(cfg.Environment)
			db, err := pkg.InitDatabase(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := pkg.AutoMigrate(db); err != nil {
				return err
			}
			logger.Info("Migrations applied")
			return nil
		},
	}
}
