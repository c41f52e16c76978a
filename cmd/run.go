package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/timetable/api/terminal"
	"github.com/kilianp07/timetable/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline once and print the timetable",
	RunE:  runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	snap, runErr := svc.RunOnce(ctx)
	if err := terminal.Render(cmd.OutOrStdout(), snap, cfg.View.Slots); err != nil {
		return err
	}
	if runErr != nil {
		return errors.New(snap.ErrorMessage)
	}
	return nil
}
