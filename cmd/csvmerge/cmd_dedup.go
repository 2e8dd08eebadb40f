package main

import (
	"errors"

	"go-csv-merge/internal/pipeline"

	"github.com/spf13/cobra"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup [dir]",
	Short: "Remove duplicate rows by key column from every CSV file in a directory",
	Long: `For each CSV file directly inside dir, keeps the first row for every value of
the key column (Filename by default) and overwrites the file when rows were removed.
Files without the key column are reported and left untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDedup,
}

func runDedup(cmd *cobra.Command, args []string) error {
	applyArgs(args, &cfg.OutputDir)
	if err := cfg.ValidateDedup(); err != nil {
		return err
	}

	p, cleanup, err := newPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("Starting deduplication of merged CSV files")
	summary, err := p.Dedup(cmd.Context(), cfg.OutputDir)
	if errors.Is(err, pipeline.ErrDirectoryNotFound) {
		// already reported; a missing directory is not a process failure
		return printSummaries(cmd, summary)
	}
	if err != nil {
		return err
	}
	logger.Info("Deduplication process completed")
	return printSummaries(cmd, summary)
}
