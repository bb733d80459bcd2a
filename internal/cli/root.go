package cli

import (
	"github.com/SAP-F-2025/quiz-session-service/internal/config"
	"github.com/spf13/cobra"
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "quiz-session-service",
		Short:         "Timed quiz session engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(NewServeCmd(config.LoadConfig))
	cmd.AddCommand(NewMigrateCmd(config.LoadConfig))
	cmd.AddCommand(NewSeedCmd(config.LoadConfig))
	return cmd
}
