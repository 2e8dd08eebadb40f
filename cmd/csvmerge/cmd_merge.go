package main

import (
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [source-a] [source-b] [output]",
	Short: "Merge each application's CSV files from two source roots",
	Long: `Lists the application subdirectories of both source roots and writes one
<output>/<application>_merged.csv per application, holding the rows of every CSV
file found for it (first root first, files in directory order).

Directories may also come from the config file (sourceA, sourceB, outputDir).`,
	Args: cobra.MaximumNArgs(3),
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	applyArgs(args, &cfg.SourceA, &cfg.SourceB, &cfg.OutputDir)
	if err := cfg.ValidateMerge(); err != nil {
		return err
	}

	p, cleanup, err := newPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("Starting CSV merge process")
	summary, err := p.Merge(cmd.Context(), cfg.SourceA, cfg.SourceB, cfg.OutputDir)
	if err != nil {
		return err
	}
	logger.Info("CSV merge process completed")
	return printSummaries(cmd, summary)
}

// applyArgs copies positional arguments over the configured values, in order
func applyArgs(args []string, targets ...*string) {
	for i, arg := range args {
		if i < len(targets) && arg != "" {
			*targets[i] = arg
		}
	}
}
