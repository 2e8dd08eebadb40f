package pipeline

import (
	"context"

	"go-csv-merge/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder persists finished stage summaries (see store.Store)
type Recorder interface {
	SaveSummary(ctx context.Context, summary *model.Summary) error
}

// Tracker collects the per-file results of one stage run and reports them as they arrive
type Tracker struct {
	summary  *model.Summary
	logger   *zap.Logger
	pipeline *Pipeline
}

func (p *Pipeline) newTracker(stage model.Stage) *Tracker {
	runID := uuid.New().String()
	return &Tracker{
		summary:  model.NewSummary(runID, stage, p.clock.Now().UTC()),
		logger:   p.logger.With(zap.String("stage", string(stage)), zap.String("run_id", runID)),
		pipeline: p,
	}
}

// Record adds a result and logs it at a level matching its outcome
func (t *Tracker) Record(result model.FileResult) {
	t.summary.Add(result)

	fields := []zap.Field{zap.String("path", result.Path)}
	if result.Application != "" {
		fields = append(fields, zap.String("application", result.Application))
	}
	switch result.Outcome {
	case model.OutcomeSuccess:
		fields = append(fields, zap.Int("rows_written", result.RowsWritten))
		if result.DuplicatesRemoved > 0 {
			fields = append(fields, zap.Int("duplicates_removed", result.DuplicatesRemoved))
		}
		t.logger.Info("File written", fields...)
	case model.OutcomeUnchanged:
		t.logger.Info("No duplicates found. No changes made", append(fields, zap.Int("rows_read", result.RowsRead))...)
	case model.OutcomeSkipped:
		t.logger.Warn("File skipped", append(fields,
			zap.String("reason", string(result.Reason)),
			zap.String("detail", result.Detail))...)
	case model.OutcomeFailed:
		t.logger.Error("File failed", append(fields,
			zap.String("reason", string(result.Reason)),
			zap.String("detail", result.Detail))...)
	}
}

// Summary exposes the summary being built
func (t *Tracker) Summary() *model.Summary {
	return t.summary
}

// Finish stamps the finish time, logs the totals and hands the summary to the recorder.
// A recorder failure is logged only; it never changes the outcome of the batch.
func (t *Tracker) Finish(ctx context.Context) *model.Summary {
	t.summary.FinishedAt = t.pipeline.clock.Now().UTC()
	t.logger.Info("Stage completed",
		zap.Int("succeeded", t.summary.Count(model.OutcomeSuccess)),
		zap.Int("unchanged", t.summary.Count(model.OutcomeUnchanged)),
		zap.Int("skipped", t.summary.Count(model.OutcomeSkipped)),
		zap.Int("failed", t.summary.Count(model.OutcomeFailed)),
		zap.Int("rows_written", t.summary.TotalRowsWritten()),
		zap.Int("duplicates_removed", t.summary.TotalDuplicatesRemoved()),
		zap.Duration("duration", t.summary.Duration()))

	if t.pipeline.recorder != nil {
		if err := t.pipeline.recorder.SaveSummary(context.WithoutCancel(ctx), t.summary); err != nil {
			t.logger.Warn("Failed to record run history", zap.Error(err))
		}
	}
	return t.summary
}
