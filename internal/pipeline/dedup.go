package pipeline

import (
	"context"
	"fmt"

	"go-csv-merge/internal/model"
	"go-csv-merge/pkg/utils"

	"go.uber.org/zap"
)

// Dedup removes, in every CSV file directly inside dir, the rows whose key
// column value already appeared earlier in the same file. Files are rewritten
// only when something was removed; files without the key column are left alone.
func (p *Pipeline) Dedup(ctx context.Context, dir string) (*model.Summary, error) {
	tracker := p.newTracker(model.StageDedup)
	dir = location(dir)

	ok, err := p.isDir(ctx, dir)
	if err != nil {
		return tracker.Finish(ctx), err
	}
	if !ok {
		tracker.logger.Error("The directory does not exist", zap.String("dir", dir))
		return tracker.Finish(ctx), fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	names, err := p.listFiles(ctx, dir)
	if err != nil {
		return tracker.Finish(ctx), fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if len(names) == 0 {
		tracker.logger.Info("No CSV files found. Nothing to deduplicate", zap.String("dir", dir))
		return tracker.Finish(ctx), nil
	}
	tracker.logger.Info("Found CSV files to deduplicate",
		zap.String("dir", dir),
		zap.Int("count", len(names)))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return tracker.Finish(ctx), err
		}
		tracker.Record(p.dedupFile(ctx, tracker, utils.JoinPath(dir, name)))
	}
	return tracker.Finish(ctx), nil
}

// dedupFile moves one file through read -> skipped | rewritten | unchanged
func (p *Pipeline) dedupFile(ctx context.Context, tracker *Tracker, URL string) model.FileResult {
	t, err := p.readTable(ctx, URL)
	if err != nil {
		return model.Failed(model.StageDedup, URL, reasonOf(err, model.ReasonParseError), err)
	}
	tracker.logger.Debug("Read rows", zap.String("path", URL), zap.Int("rows", t.Len()))

	if !t.HasColumn(p.keyColumn) {
		result := model.Skipped(model.StageDedup, URL, model.ReasonMissingKeyColumn,
			fmt.Sprintf("'%s' column not found", p.keyColumn))
		result.RowsRead = t.Len()
		return result
	}

	deduped, removed, err := t.DropDuplicates(p.keyColumn)
	if err != nil {
		return model.Failed(model.StageDedup, URL, model.ReasonMissingKeyColumn, err)
	}
	if removed == 0 {
		return model.Unchanged(model.StageDedup, URL, t.Len())
	}

	if err := p.writeTable(ctx, URL, deduped); err != nil {
		result := model.Failed(model.StageDedup, URL, model.ReasonWriteError, err)
		result.RowsRead = t.Len()
		return result
	}
	result := model.Success(model.StageDedup, URL, deduped.Len())
	result.RowsRead = t.Len()
	result.DuplicatesRemoved = removed
	return result
}
