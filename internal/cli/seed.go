package cli

import (
	"github.com/SAP-F-2025/quiz-session-service/internal/config"
	"github.com/SAP-F-2025/quiz-session-service/internal/seed"
	"github.com/SAP-F-2025/quiz-session-service/internal/utils"
	"github.com/SAP-F-2025/quiz-session-service/internal/validator"
	"github.com/SAP-F-2025/quiz-session-service/pkg"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads a YAML question bank into the configured store.
func NewSeedCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories and questions from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := utils.NewLogger(cfg.Environment)

			st, err := openStores(cmd.Context(), cfg, logger.Slog())
			if err != nil {
				return err
			}
			defer st.Close()

			if st.db != nil {
				if err := pkg.AutoMigrate(st.db); err != nil {
					return err
				}
			}

			seeder := seed.NewSeeder(st.repo.Categories(), st.questions, validator.New(), logger.Slog())
			stats, err := seeder.SeedFile(cmd.Context(), file)
			if err != nil {
				return err
			}
			cmd.Printf("seeded %d categories and %d questions (%d already present)\n",
				stats.CategoriesCreated, stats.QuestionsCreated, stats.QuestionsSkipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the question bank YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
