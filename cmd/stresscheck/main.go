// Command stresscheck serves and runs the stress-level prediction pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/stresscheck/internal/config"
	"github.com/crimson-sun/stresscheck/internal/logging"
)

// app carries state shared by every subcommand.
type app struct {
	envFiles []string
	logLevel string
	cfg      config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "stresscheck",
		Short: "Stress-level prediction from survey answers",
		Long: `stresscheck normalizes questionnaire answers into the 21 model features,
standardizes them and scores them with a trained three-class classifier
(low, medium, high).

Configuration comes from STRESSCHECK_* environment variables, optionally
loaded from a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotenv(a.envFiles...); err != nil {
				return err
			}
			a.cfg = config.Load()
			if a.logLevel != "" {
				a.cfg.Log.Level = a.logLevel
			}
			logging.Init(cmd.ErrOrStderr(), a.cfg.Log.Format, logging.ParseLevel(a.cfg.Log.Level))
			return nil
		},
	}

	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", []string{".env"}, "dotenv files to load (missing files are skipped)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override STRESSCHECK_LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(a),
		newPreprocessCmd(a),
		newPredictCmd(a),
		newScenariosCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "stresscheck:", err)
		os.Exit(1)
	}
}
