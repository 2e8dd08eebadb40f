package pipeline

import (
	"context"
	"os"
	"strings"
	"testing"

	"go-csv-merge/internal/model"
	"go-csv-merge/internal/table"
	"go-csv-merge/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fixture is an isolated tree in the in-memory filesystem
type fixture struct {
	t    *testing.T
	ctx  context.Context
	fs   afs.Service
	base string
}

func newFixture(t *testing.T) *fixture {
	return &fixture{
		t:    t,
		ctx:  context.Background(),
		fs:   afs.New(),
		base: "mem://localhost/" + uuid.NewString(),
	}
}

func (f *fixture) url(elems ...string) string {
	return utils.JoinPath(f.base, elems...)
}

func (f *fixture) put(rel, content string) {
	f.t.Helper()
	f.putMode(rel, content, 0644)
}

func (f *fixture) putMode(rel, content string, mode os.FileMode) {
	f.t.Helper()
	require.NoError(f.t, f.fs.Upload(f.ctx, f.url(rel), mode, strings.NewReader(content)))
}

func (f *fixture) mode(rel string) os.FileMode {
	f.t.Helper()
	object, err := f.fs.Object(f.ctx, f.url(rel))
	require.NoError(f.t, err)
	return object.Mode().Perm()
}

func (f *fixture) mkdir(rel string) {
	f.t.Helper()
	require.NoError(f.t, f.fs.Create(f.ctx, f.url(rel), os.ModeDir|0755, true))
}

func (f *fixture) read(rel string) string {
	f.t.Helper()
	data, err := f.fs.DownloadWithURL(f.ctx, f.url(rel))
	require.NoError(f.t, err)
	return string(data)
}

func (f *fixture) readTable(rel string) *table.Table {
	f.t.Helper()
	tbl, err := table.Read(strings.NewReader(f.read(rel)))
	require.NoError(f.t, err)
	return tbl
}

func (f *fixture) exists(rel string) bool {
	f.t.Helper()
	ok, err := f.fs.Exists(f.ctx, f.url(rel))
	require.NoError(f.t, err)
	return ok
}

func (f *fixture) pipeline(opts ...Option) *Pipeline {
	return New(f.fs, append([]Option{WithLogger(zaptest.NewLogger(f.t))}, opts...)...)
}

func TestRun_MergeThenDedup(t *testing.T) {
	f := newFixture(t)
	f.put("data_f/app1/x.csv", "Filename,Size\na.png,1\nb.png,2\nc.png,3\n")
	f.put("data_p/app1/y.csv", "Filename,Size\nd.png,4\na.png,5\n")

	summaries, err := f.pipeline().Run(f.ctx, f.url("data_f"), f.url("data_p"), f.url("data_s"))
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	merge, dedup := summaries[0], summaries[1]
	assert.Equal(t, model.StageMerge, merge.Stage)
	assert.Equal(t, model.StageDedup, dedup.Stage)
	assert.NotEqual(t, merge.RunID, dedup.RunID)

	mergeResult, ok := merge.Find(f.url("data_s", "app1_merged.csv"))
	require.True(t, ok)
	assert.Equal(t, model.OutcomeSuccess, mergeResult.Outcome)
	assert.Equal(t, 5, mergeResult.RowsWritten)

	dedupResult, ok := dedup.Find(f.url("data_s", "app1_merged.csv"))
	require.True(t, ok)
	assert.Equal(t, model.OutcomeSuccess, dedupResult.Outcome)
	assert.Equal(t, 1, dedupResult.DuplicatesRemoved)
	assert.Equal(t, 4, dedupResult.RowsWritten)

	assert.Equal(t, "Filename,Size\na.png,1\nb.png,2\nc.png,3\nd.png,4\n", f.read("data_s/app1_merged.csv"))
}

func TestNew_Defaults(t *testing.T) {
	p := New(nil)
	assert.Equal(t, "Filename", p.KeyColumn())
	assert.Equal(t, ".csv", p.Extension())

	p = New(nil, WithKeyColumn("Path"), WithExtension("tsv"), WithKeyColumn(""))
	assert.Equal(t, "Path", p.KeyColumn())
	assert.Equal(t, ".tsv", p.Extension())
}
