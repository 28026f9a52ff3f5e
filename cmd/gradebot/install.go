package main

import (
	"errors"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/gradebot/internal/config"
	"github.com/sandevgo/gradebot/internal/service/installer"
	"github.com/sandevgo/gradebot/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:          "install",
	Short:        "Configure GradeBot interactively",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		logger := log.FromCtx(ctx)

		state, err := installer.RunWizard()
		if errors.Is(err, installer.ErrInterrupted) {
			logger.Warn().Msg("setup cancelled, nothing was saved")
			return nil
		}
		if err != nil {
			return err
		}

		runtimePath := config.GetRuntimePath()
		envPath := filepath.Join(runtimePath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().
			Str("runtime", runtimePath).
			Int("rows", state.DatasetRows).
			Str("llm", state.LLM.Provider).
			Msg("setup complete, run 'gradebot start'")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
