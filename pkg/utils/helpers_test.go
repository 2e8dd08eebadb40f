package utils

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func TestHasExtension(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		ext      string
		expected bool
	}{
		{name: "dotted extension", file: "x.csv", ext: ".csv", expected: true},
		{name: "bare extension", file: "x.csv", ext: "csv", expected: true},
		{name: "other extension", file: "x.csv.bak", ext: ".csv", expected: false},
		{name: "case sensitive", file: "X.CSV", ext: ".csv", expected: false},
		{name: "empty extension", file: "x.csv", ext: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasExtension(tt.file, tt.ext))
		})
	}
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/data/app1/x.csv", JoinPath("/data/", "app1", "x.csv"))
	assert.Equal(t, "mem://localhost/data/app1/x.csv", JoinPath("mem://localhost/data/", "/app1/", "x.csv"))
}

func TestIsSameLocation(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{name: "trailing slash", a: "mem://localhost/a/b", b: "mem://localhost/a/b/", expected: true},
		{name: "child url", a: "mem://localhost/a/b/c", b: "mem://localhost/a/b", expected: false},
		{name: "local path with host", a: "file://localhost/tmp/x", b: "/tmp/x", expected: true},
		{name: "local path without host", a: "file:///tmp/x", b: "/tmp/x", expected: true},
		{name: "file url forms", a: "file://localhost/tmp/x", b: "file:///tmp/x/", expected: true},
		{name: "local child with same name", a: "file://localhost/tmp/x/x", b: "/tmp/x", expected: false},
		{name: "different scheme", a: "mem://localhost/tmp/x", b: "/tmp/x", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSameLocation(tt.a, tt.b))
		})
	}
}

func TestMergedFilePath(t *testing.T) {
	om := NewOutputManager(afs.New(), "mem://localhost/out")
	assert.Equal(t, "mem://localhost/out/app1_merged.csv", om.MergedFilePath("app1", "_merged", "csv"))
	assert.Equal(t, "app1_merged.csv", MergedFileName("app1", "_merged", ".csv"))
}

func TestEnsureOutputDirExists(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	base := "mem://localhost/" + uuid.NewString()

	om := NewOutputManager(fs, base+"/out")
	require.NoError(t, om.EnsureOutputDirExists(ctx))
	object, err := fs.Object(ctx, base+"/out")
	require.NoError(t, err)
	assert.True(t, object.IsDir())

	// idempotent
	require.NoError(t, om.EnsureOutputDirExists(ctx))

	require.NoError(t, fs.Upload(ctx, base+"/file", 0644, strings.NewReader("x")))
	assert.Error(t, NewOutputManager(fs, base+"/file").EnsureOutputDirExists(ctx))

	local := t.TempDir() + "/nested/out"
	require.NoError(t, NewOutputManager(fs, local).EnsureOutputDirExists(ctx))
	info, err := os.Stat(local)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
