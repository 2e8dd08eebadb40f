package model

import "fmt"

// Stage identifies which batch job produced a result
type Stage string

const (
	StageMerge Stage = "merge"
	StageDedup Stage = "dedup"
)

// DefaultKeyColumn is the column whose value identifies duplicate rows
const DefaultKeyColumn = "Filename"

// DefaultExtension is the tabular file extension both stages look for
const DefaultExtension = ".csv"

// MergedSuffix is appended to the application name for merged outputs
const MergedSuffix = "_merged"

// SourceFile is one tabular file discovered for an application
type SourceFile struct {
	Root        string `json:"root"`
	Application string `json:"application"`
	Name        string `json:"name"`
	URL         string `json:"url"`
}

// Error is a per-file failure carrying a machine-readable reason
type Error struct {
	Reason Reason
	Path   string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError wraps cause with a reason and the path it concerns
func NewError(reason Reason, path string, cause error) *Error {
	return &Error{Reason: reason, Path: path, Cause: cause}
}
