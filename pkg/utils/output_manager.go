package utils

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/viant/afs"
)

// OutputManager handles output directory creation and merged file naming
type OutputManager struct {
	BaseOutputDir string
	fs            afs.Service
}

// NewOutputManager creates a new output manager
func NewOutputManager(fs afs.Service, baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
		fs:            fs,
	}
}

// EnsureOutputDirExists ensures the base output directory exists
func (om *OutputManager) EnsureOutputDirExists(ctx context.Context) error {
	exists, err := om.fs.Exists(ctx, om.BaseOutputDir)
	if err != nil {
		return fmt.Errorf("failed to check output directory: %w", err)
	}
	if exists {
		object, err := om.fs.Object(ctx, om.BaseOutputDir)
		if err != nil {
			return fmt.Errorf("failed to stat output directory: %w", err)
		}
		if !object.IsDir() {
			return fmt.Errorf("output path %s is not a directory", om.BaseOutputDir)
		}
		return nil
	}
	if err := om.fs.Create(ctx, om.BaseOutputDir, os.ModeDir|0755, true); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// MergedFileName returns <application>_merged<ext>
func MergedFileName(application, suffix, ext string) string {
	return application + suffix + NormalizeExtension(ext)
}

// MergedFilePath generates the full location of an application's merged output
func (om *OutputManager) MergedFilePath(application, suffix, ext string) string {
	return JoinPath(om.BaseOutputDir, MergedFileName(path.Base(application), suffix, ext))
}

// NormalizeExtension makes sure ext starts with a dot
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
