package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go-csv-merge/internal/model"
	"go-csv-merge/pkg/utils"

	"github.com/jonboulle/clockwork"
	"github.com/viant/afs"
	"go.uber.org/zap"
)

// ErrDirectoryNotFound is returned by Dedup when the target directory is missing
var ErrDirectoryNotFound = errors.New("directory does not exist")

// Pipeline runs the merge and dedup stages against a storage service.
// Locations may be local paths or any URL the service understands (file://, mem://, ...).
type Pipeline struct {
	fs       afs.Service
	logger   *zap.Logger
	clock    clockwork.Clock
	recorder Recorder

	keyColumn    string
	extension    string
	mergedSuffix string
}

type Option func(*Pipeline)

// WithLogger sets the logger used for progress and per-file diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock replaces the wall clock used to stamp summaries
func WithClock(clock clockwork.Clock) Option {
	return func(p *Pipeline) {
		p.clock = clock
	}
}

// WithRecorder persists every finished summary
func WithRecorder(recorder Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = recorder
	}
}

// WithKeyColumn sets the column used to detect duplicate rows
func WithKeyColumn(column string) Option {
	return func(p *Pipeline) {
		if column != "" {
			p.keyColumn = column
		}
	}
}

// WithExtension sets the tabular file extension, e.g. ".csv"
func WithExtension(ext string) Option {
	return func(p *Pipeline) {
		if ext = utils.NormalizeExtension(ext); ext != "" {
			p.extension = ext
		}
	}
}

// WithMergedSuffix sets the suffix between application name and extension of merged outputs
func WithMergedSuffix(suffix string) Option {
	return func(p *Pipeline) {
		p.mergedSuffix = suffix
	}
}

// New creates a pipeline; fs defaults to afs.New() when nil
func New(fs afs.Service, opts ...Option) *Pipeline {
	if fs == nil {
		fs = afs.New()
	}
	p := &Pipeline{
		fs:           fs,
		logger:       zap.NewNop(),
		clock:        clockwork.NewRealClock(),
		keyColumn:    model.DefaultKeyColumn,
		extension:    model.DefaultExtension,
		mergedSuffix: model.MergedSuffix,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// KeyColumn returns the configured dedup key
func (p *Pipeline) KeyColumn() string {
	return p.keyColumn
}

// Extension returns the configured tabular extension
func (p *Pipeline) Extension() string {
	return p.extension
}

// Run merges both source roots into outputDir and then de-duplicates the merged files,
// the two stages the tool was built around.
func (p *Pipeline) Run(ctx context.Context, sourceA, sourceB, outputDir string) ([]*model.Summary, error) {
	p.logger.Info("Starting CSV merge process")
	merged, err := p.Merge(ctx, sourceA, sourceB, outputDir)
	summaries := []*model.Summary{merged}
	if err != nil {
		return summaries, fmt.Errorf("merge stage: %w", err)
	}
	p.logger.Info("CSV merge process completed")

	p.logger.Info("Starting deduplication of merged CSV files")
	deduped, err := p.Dedup(ctx, outputDir)
	summaries = append(summaries, deduped)
	if err != nil {
		return summaries, fmt.Errorf("dedup stage: %w", err)
	}
	return summaries, nil
}

// location turns relative local paths into absolute ones; URLs pass through
func location(p string) string {
	if strings.Contains(p, "://") {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
