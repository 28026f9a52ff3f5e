package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sandevgo/gradebot/internal/config"
	"github.com/sandevgo/gradebot/internal/storage/sqlite"
	"github.com/sandevgo/gradebot/internal/transport/cli"
	"github.com/sandevgo/gradebot/pkg/log"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [user]",
	Short: "Print the archived transcript of a conversation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context(), log.WithOutput(os.Stderr))
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}
		appCfg := config.NewAppConfig(ctx)
		if !appCfg.EnableTranscripts {
			return errors.New("transcripts are disabled (ENABLE_TRANSCRIPTS=false)")
		}

		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		userID := cli.UserID
		if len(args) == 1 {
			userID = args[0]
		}

		turns, err := sqlite.NewTranscriptRepo(db).ListTurns(ctx, userID, historyLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(turns) == 0 {
			fmt.Fprintf(out, "No transcript for %s\n", userID)
			return nil
		}
		for _, t := range turns {
			fmt.Fprintf(out, "%s  %-9s %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04:05"), t.Role, t.Content)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "newest turns to print, 0 for all")
	rootCmd.AddCommand(historyCmd)
}
