package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go-csv-merge/internal/config"
	"go-csv-merge/internal/model"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupCLI(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	logger = zap.NewNop()
	cfg = config.Default()
	jsonOutput = false
	t.Cleanup(func() {
		cfg = nil
		jsonOutput = false
	})

	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(out)
	return cmd, out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRunCmd(t *testing.T) {
	cmd, out := setupCLI(t)
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "data_f", "app1", "x.csv"), "Filename,Size\na,1\nb,2\nc,3\n")
	writeFile(t, filepath.Join(ws, "data_p", "app1", "y.csv"), "Filename,Size\nd,4\na,5\n")
	cfg.HistoryDB = filepath.Join(ws, "history.db")
	jsonOutput = true

	err := runPipeline(cmd, []string{
		filepath.Join(ws, "data_f"),
		filepath.Join(ws, "data_p"),
		filepath.Join(ws, "data_s"),
	})
	require.NoError(t, err)

	var summaries []model.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, 5, summaries[0].TotalRowsWritten())
	assert.Equal(t, 1, summaries[1].TotalDuplicatesRemoved())

	data, err := os.ReadFile(filepath.Join(ws, "data_s", "app1_merged.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Filename,Size\na,1\nb,2\nc,3\nd,4\n", string(data))

	out.Reset()
	jsonOutput = false
	require.NoError(t, showHistory(cmd, nil))
	assert.Contains(t, out.String(), "merge")
	assert.Contains(t, out.String(), "dedup")

	out.Reset()
	require.NoError(t, showHistory(cmd, []string{summaries[1].RunID}))
	assert.Contains(t, out.String(), "app1_merged.csv")
	assert.Contains(t, out.String(), "success")
}

func TestMergeAndDedupCmds(t *testing.T) {
	cmd, _ := setupCLI(t)
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "a", "app1", "x.csv"), "Filename\nq\nq\n")
	writeFile(t, filepath.Join(ws, "b", "app2", "notes.txt"), "ignored")

	require.NoError(t, runMerge(cmd, []string{filepath.Join(ws, "a"), filepath.Join(ws, "b"), filepath.Join(ws, "out")}))
	_, err := os.Stat(filepath.Join(ws, "out", "app2_merged.csv"))
	assert.True(t, os.IsNotExist(err))

	cfg = config.Default()
	require.NoError(t, runDedup(cmd, []string{filepath.Join(ws, "out")}))
	data, err := os.ReadFile(filepath.Join(ws, "out", "app1_merged.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Filename\nq\n", string(data))
}

func TestDedupCmd_MissingDirectoryIsReportedNotFatal(t *testing.T) {
	cmd, _ := setupCLI(t)

	assert.NoError(t, runDedup(cmd, []string{filepath.Join(t.TempDir(), "nowhere")}))
}

func TestMergeCmd_RequiresDirectories(t *testing.T) {
	cmd, _ := setupCLI(t)

	assert.Error(t, runMerge(cmd, []string{"only-one"}))
}

func TestHistoryCmd_RequiresDatabase(t *testing.T) {
	cmd, _ := setupCLI(t)

	assert.Error(t, showHistory(cmd, nil))
}

func TestApplyArgs(t *testing.T) {
	a, b, c := "cfg-a", "cfg-b", "cfg-c"
	applyArgs([]string{"arg-a", ""}, &a, &b, &c)
	assert.Equal(t, "arg-a", a)
	assert.Equal(t, "cfg-b", b)
	assert.Equal(t, "cfg-c", c)
}

func TestExecute_FailingCommandReturnsError(t *testing.T) {
	var stderr bytes.Buffer
	rootCmd.SetArgs([]string{"merge", "only-one"})
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetErr(nil)
		logger = nil
		cfg = nil
	})

	err := execute()
	require.Error(t, err)
	assert.NotNil(t, logger)
}
