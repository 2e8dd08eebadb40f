package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"go-csv-merge/internal/store"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded runs, or the per-file results of one run",
	Long: `Reads the run history database (--history-db or historyDB in the config file).
Without arguments the most recent runs are listed; with a run id every file
result of that run is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: showHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to list (0 = all)")
}

func showHistory(cmd *cobra.Command, args []string) error {
	if cfg.HistoryDB == "" {
		return errors.New("no history database configured (use --history-db)")
	}
	history, err := store.Open(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer history.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		results, err := history.GetRunResults(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("run %s: %w", args[0], err)
		}
		if jsonOutput {
			return json.NewEncoder(out).Encode(results)
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "OUTCOME\tREASON\tROWS READ\tROWS WRITTEN\tDUPLICATES\tPATH")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
				r.Outcome, r.Reason, r.RowsRead, r.RowsWritten, r.DuplicatesRemoved, r.Path)
		}
		return w.Flush()
	}

	runs, err := history.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return json.NewEncoder(out).Encode(runs)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTAGE\tSTARTED\tOK\tUNCHANGED\tSKIPPED\tFAILED\tROWS\tDUPLICATES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			run.ID, run.Stage, run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Succeeded, run.Unchanged, run.Skipped, run.Failed,
			run.RowsWritten, run.DuplicatesRemoved)
	}
	return w.Flush()
}
