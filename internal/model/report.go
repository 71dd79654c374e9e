package model

import "time"

// Source identifies one harvested data source.
type Source string

const (
	SourceStocks Source = "stocks"
	SourceGold   Source = "gold"
	SourceCrypto Source = "crypto"
)

// Status is the per-source outcome of a fetch cycle.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"     // fetch completed but produced no usable records
	StatusError   Status = "error"       // extraction failed, previous snapshot retained
	StatusFatal   Status = "fatal_error" // browser launch failed
	StatusSkipped Status = "skipped"     // outside trading hours, unforced run
	StatusBusy    Status = "busy"        // another fetch cycle holds the run lock
)

// SourceResult is the outcome for a single source within one run.
type SourceResult struct {
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// RunReport summarizes one fetch cycle. It is returned to the caller and
// never persisted.
type RunReport struct {
	ID              string                  `json:"id"`
	Timestamp       time.Time               `json:"timestamp"`
	DurationSeconds float64                 `json:"duration_seconds"`
	Results         map[Source]SourceResult `json:"results"`
}

// HasFailure reports whether any source ended in error or fatal_error.
func (r *RunReport) HasFailure() bool {
	for _, res := range r.Results {
		if res.Status == StatusError || res.Status == StatusFatal {
			return true
		}
	}
	return false
}
