package model

import "time"

// Summary aggregates the per-file results of one stage run
type Summary struct {
	RunID      string       `json:"run_id"`
	Stage      Stage        `json:"stage"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Results    []FileResult `json:"results"`
}

// NewSummary creates an empty summary for a stage
func NewSummary(runID string, stage Stage, startedAt time.Time) *Summary {
	return &Summary{
		RunID:     runID,
		Stage:     stage,
		StartedAt: startedAt,
		Results:   make([]FileResult, 0),
	}
}

// Add appends a result
func (s *Summary) Add(result FileResult) {
	s.Results = append(s.Results, result)
}

// Count returns how many results ended with the given outcome
func (s *Summary) Count(outcome Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}

// TotalRowsWritten sums rows written across successful results
func (s *Summary) TotalRowsWritten() int {
	total := 0
	for _, r := range s.Results {
		total += r.RowsWritten
	}
	return total
}

// TotalDuplicatesRemoved sums duplicates dropped by the dedup stage
func (s *Summary) TotalDuplicatesRemoved() int {
	total := 0
	for _, r := range s.Results {
		total += r.DuplicatesRemoved
	}
	return total
}

// Duration is zero until the summary is finished
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Find returns the first result for path, if any
func (s *Summary) Find(path string) (FileResult, bool) {
	for _, r := range s.Results {
		if r.Path == path {
			return r, true
		}
	}
	return FileResult{}, false
}
