package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/timetable/remote"
)

var mockCmd = &cobra.Command{
	Use:   "mockapi",
	Short: "Serve a mock timetable service",
	RunE:  runMock,
}

func init() {
	rootCmd.AddCommand(mockCmd)
}

func runMock(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	seed := remote.DefaultSeed()
	if cfg.Mock.Seed != "" {
		seed, err = remote.LoadSeed(cfg.Mock.Seed)
		if err != nil {
			return fmt.Errorf("load seed: %w", err)
		}
	}
	return remote.NewServerMock(cfg.Mock, seed).Start(ctx)
}
