package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/gradebot/pkg/log"
	"github.com/sandevgo/gradebot/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the GradeBot services",
	Long:  `Loads the dataset and memory, then serves the enabled transports (Telegram, CLI) until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting gradebot")

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}

		transports, err := app.Transports(ctx)
		if err != nil {
			return err
		}
		services := append(app.Services, transports...)

		failures := make(chan error, len(services))
		srv.StartServices(ctx, services, func(err error) {
			failures <- err
			stop()
		})

		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("gradebot has been shut down gracefully")

		select {
		case err := <-failures:
			return err
		default:
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
