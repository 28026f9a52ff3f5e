package main

import (
	"os"
	"strings"

	"github.com/sandevgo/gradebot/internal/transport/cli"
	"github.com/sandevgo/gradebot/pkg/log"
	"github.com/spf13/cobra"
)

var queryUser string

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Answer a single message and exit",
	Long:  `Runs one message through the router exactly as a chat would. Prefix the text with "!press " to simulate a button press.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context(), log.WithOutput(os.Stderr))
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer func() {
			for i := len(app.Services) - 1; i >= 0; i-- {
				if err := app.Services[i].Shutdown(ctx); err != nil {
					log.FromCtx(ctx).Error().Err(err).Msg("shutdown failed")
				}
			}
		}()

		reply := cli.Dispatch(ctx, app.Router, queryUser, strings.Join(args, " "))
		cli.WriteReply(cmd.OutOrStdout(), reply)
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryUser, "user", "u", cli.UserID, "conversation id the message belongs to")
	rootCmd.AddCommand(queryCmd)
}
