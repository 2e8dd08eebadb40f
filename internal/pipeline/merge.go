package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-csv-merge/internal/model"
	"go-csv-merge/internal/table"
	"go-csv-merge/pkg/utils"

	"go.uber.org/zap"
)

// Merge concatenates, per application, every CSV file found under
// <sourceA>/<app> and <sourceB>/<app> into <outputDir>/<app>_merged.csv.
//
// The returned error is reserved for conditions that stop the whole stage
// (output directory unusable, discovery failure, cancelled context). Problems
// with individual files end up in the summary.
func (p *Pipeline) Merge(ctx context.Context, sourceA, sourceB, outputDir string) (*model.Summary, error) {
	tracker := p.newTracker(model.StageMerge)
	roots := []string{location(sourceA), location(sourceB)}
	outputs := utils.NewOutputManager(p.fs, location(outputDir))

	if err := outputs.EnsureOutputDirExists(ctx); err != nil {
		return tracker.Finish(ctx), err
	}
	tracker.logger.Info("Output directory is ready", zap.String("output", outputs.BaseOutputDir))

	apps, err := p.DiscoverApplications(ctx, roots...)
	if err != nil {
		return tracker.Finish(ctx), fmt.Errorf("failed to discover applications: %w", err)
	}
	if len(apps) == 0 {
		tracker.logger.Info("No application directories found",
			zap.Strings("roots", roots))
		return tracker.Finish(ctx), nil
	}
	tracker.logger.Info("Found applications", zap.String("applications", strings.Join(apps, ", ")))

	for _, app := range apps {
		if err := ctx.Err(); err != nil {
			return tracker.Finish(ctx), err
		}
		p.mergeApplication(ctx, tracker, outputs, roots, app)
	}
	return tracker.Finish(ctx), nil
}

func (p *Pipeline) mergeApplication(ctx context.Context, tracker *Tracker, outputs *utils.OutputManager, roots []string, app string) {
	outputURL := outputs.MergedFilePath(app, p.mergedSuffix, p.extension)
	record := func(result model.FileResult) {
		result.Application = app
		tracker.Record(result)
	}

	files, err := p.CollectFiles(ctx, roots, app)
	if err != nil {
		record(model.Failed(model.StageMerge, outputURL, model.ReasonReadError, err))
		return
	}
	if len(files) == 0 {
		record(model.Skipped(model.StageMerge, outputURL, model.ReasonNoSourceFiles, "no CSV files found to merge"))
		return
	}

	tables := make([]*table.Table, 0, len(files))
	rowsRead := 0
	for _, file := range files {
		t, err := p.readTable(ctx, file.URL)
		if err != nil {
			record(model.Failed(model.StageMerge, file.URL, reasonOf(err, model.ReasonParseError), err))
			continue
		}
		tracker.logger.Debug("Successfully read",
			zap.String("path", file.URL),
			zap.Int("rows", t.Len()))
		tables = append(tables, t)
		rowsRead += t.Len()
	}
	if len(tables) == 0 {
		record(model.Skipped(model.StageMerge, outputURL, model.ReasonNoParsedFiles, "no data to merge"))
		return
	}

	merged := table.Concat(tables...)
	if err := p.writeTable(ctx, outputURL, merged); err != nil {
		record(model.Failed(model.StageMerge, outputURL, model.ReasonWriteError, err))
		return
	}
	tracker.logger.Info("Merged files",
		zap.String("application", app),
		zap.Int("files", len(tables)),
		zap.String("output", outputURL))

	result := model.Success(model.StageMerge, outputURL, merged.Len())
	result.RowsRead = rowsRead
	record(result)
}

// reasonOf extracts the typed reason carried by err, or returns fallback
func reasonOf(err error, fallback model.Reason) model.Reason {
	var typed *model.Error
	if errors.As(err, &typed) {
		return typed.Reason
	}
	return fallback
}
