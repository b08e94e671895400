// Package main provides the processor command: it turns a CMS export into the
// category documents and WebP renditions the site is built from.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trsi/internal/config"
	"trsi/internal/logger"
	"trsi/internal/pipeline"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "processor: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "processor",
		Short: "Normalize a CMS export and transcode its images",
		Long: "processor reads the CMS export named by processor.yaml (or the CMS_* environment\n" +
			"variables), writes one JSON document per content category and WebP renditions\n" +
			"for every image asset.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cmd)
		},
	}
}

func run(ctx context.Context, cmd *cobra.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	cfg, err := config.Load(wd)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	log.Debug("configuration loaded", "config", cfg.String())

	p, err := pipeline.New(cfg, log)
	if err != nil {
		return err
	}

	summary, err := p.Run(ctx)
	if err != nil {
		log.Error("run failed", "error", err)
		return err
	}

	return pipeline.RenderSummary(cmd.OutOrStdout(), summary)
}
