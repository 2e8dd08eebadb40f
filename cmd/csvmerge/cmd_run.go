package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [source-a] [source-b] [output]",
	Short: "Merge both source roots, then de-duplicate the merged output",
	Args:  cobra.MaximumNArgs(3),
	RunE:  runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	applyArgs(args, &cfg.SourceA, &cfg.SourceB, &cfg.OutputDir)
	if err := cfg.ValidateMerge(); err != nil {
		return err
	}

	p, cleanup, err := newPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	summaries, err := p.Run(cmd.Context(), cfg.SourceA, cfg.SourceB, cfg.OutputDir)
	if err != nil {
		return err
	}
	logger.Info("Deduplication process completed")
	return printSummaries(cmd, summaries...)
}
