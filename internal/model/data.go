package model

// Outcome is the terminal state of one file in a stage
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
	OutcomeUnchanged Outcome = "unchanged"
)

// Reason is the machine-readable cause attached to skipped and failed results
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonNoSourceFiles    Reason = "no_source_files"
	ReasonNoParsedFiles    Reason = "no_parsed_files"
	ReasonMissingKeyColumn Reason = "missing_key_column"
	ReasonParseError       Reason = "parse_error"
	ReasonReadError        Reason = "read_error"
	ReasonWriteError       Reason = "write_error"
)

// FileResult represents the result of processing one file (or one application, for merge)
type FileResult struct {
	Stage             Stage   `json:"stage"`
	Application       string  `json:"application,omitempty"`
	Path              string  `json:"path"`
	Outcome           Outcome `json:"outcome"`
	Reason            Reason  `json:"reason,omitempty"`
	Detail            string  `json:"detail,omitempty"`
	RowsRead          int     `json:"rows_read"`
	RowsWritten       int     `json:"rows_written"`
	DuplicatesRemoved int     `json:"duplicates_removed"`
}

// Success builds a result for a file that was written
func Success(stage Stage, path string, rowsWritten int) FileResult {
	return FileResult{Stage: stage, Path: path, Outcome: OutcomeSuccess, RowsWritten: rowsWritten}
}

// Skipped builds a result for a file that was intentionally not processed
func Skipped(stage Stage, path string, reason Reason, detail string) FileResult {
	return FileResult{Stage: stage, Path: path, Outcome: OutcomeSkipped, Reason: reason, Detail: detail}
}

// Failed builds a result from an error, keeping the typed reason when there is one
func Failed(stage Stage, path string, reason Reason, err error) FileResult {
	result := FileResult{Stage: stage, Path: path, Outcome: OutcomeFailed, Reason: reason}
	if err != nil {
		result.Detail = err.Error()
	}
	return result
}

// Unchanged builds a result for a file that was read but needed no rewrite
func Unchanged(stage Stage, path string, rowsRead int) FileResult {
	return FileResult{Stage: stage, Path: path, Outcome: OutcomeUnchanged, RowsRead: rowsRead}
}
