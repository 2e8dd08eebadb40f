package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-csv-merge/internal/config"
	"go-csv-merge/internal/logging"
	"go-csv-merge/internal/model"
	"go-csv-merge/internal/pipeline"
	"go-csv-merge/internal/store"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	historyDB  string
	keyColumn  string
	extension  string
	jsonOutput bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "csvmerge",
	Short: "Merge per-application CSV files from two source trees and de-duplicate them",
	Long: `csvmerge consolidates CSV exports laid out as <root>/<application>/*.csv.

  merge   concatenates every application's files from two roots into <output>/<app>_merged.csv
  dedup   drops rows whose Filename value already appeared earlier in the same file
  run     merge, then dedup the merged output

Problems with individual files are reported and skipped; they never stop a run.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if historyDB != "" {
			cfg.HistoryDB = historyDB
		}
		if keyColumn != "" {
			cfg.KeyColumn = keyColumn
		}
		if extension != "" {
			cfg.Extension = extension
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&historyDB, "history-db", "", "SQLite file recording run history (disabled when empty)")
	rootCmd.PersistentFlags().StringVar(&keyColumn, "key-column", "", "column used to detect duplicates (default \"Filename\")")
	rootCmd.PersistentFlags().StringVar(&extension, "ext", "", "tabular file extension (default \".csv\")")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print the run summary as JSON")

	rootCmd.AddCommand(mergeCmd, dedupCmd, runCmd, historyCmd)
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the root command and flushes the logger whether or not the
// command failed.
func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { logging.Sync(logger) }()
	return rootCmd.ExecuteContext(ctx)
}

// newPipeline wires the storage service, logger and optional history store.
// The returned cleanup closes the store.
func newPipeline() (*pipeline.Pipeline, func(), error) {
	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithKeyColumn(cfg.KeyColumn),
		pipeline.WithExtension(cfg.Extension),
	}
	cleanup := func() {}
	if cfg.HistoryDB != "" {
		history, err := store.Open(cfg.HistoryDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open history database: %w", err)
		}
		opts = append(opts, pipeline.WithRecorder(history))
		cleanup = func() {
			if err := history.Close(); err != nil {
				logger.Warn("Failed to close history database", zap.Error(err))
			}
		}
	}
	return pipeline.New(afs.New(), opts...), cleanup, nil
}

func printSummaries(cmd *cobra.Command, summaries ...*model.Summary) error {
	if !jsonOutput {
		return nil
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(summaries)
}
