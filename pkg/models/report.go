package models

import (
	"time"
)

// ActionResult is the outcome of applying one decision to one group.
// It is immutable once recorded in a summary.
type ActionResult struct {
	// GroupID and Name identify the group
	GroupID int    `json:"group_id"`
	Name    string `json:"name"`

	// Decision is the choice that was applied
	Decision ActionChoice `json:"decision"`

	// Success is false when any part of the action failed
	Success bool `json:"success"`

	// Error holds the first error message, if any
	Error string `json:"error,omitempty"`

	// ErrorKind classifies Error
	ErrorKind ErrorKind `json:"error_kind,omitempty"`

	// Removed lists the paths that were actually deleted
	Removed []string `json:"removed,omitempty"`

	// Written lists the paths created or overwritten by copy/move actions
	Written []string `json:"written,omitempty"`

	// DryRun is set when the action was only simulated
	DryRun bool `json:"dry_run,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// RunSummary aggregates the results of a queue drain
type RunSummary struct {
	// RunID identifies the run in logs and exports
	RunID string `json:"run_id"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	// Total is the number of recorded results
	Total        int `json:"total"`
	SuccessCount int `json:"success"`
	FailureCount int `json:"failed"`

	// Unresolved counts groups still queued when the drain stopped
	Unresolved int `json:"unresolved"`

	// Actions holds every result in the order it was recorded
	Actions []ActionResult `json:"actions"`
}

// RunStatus represents the overall result of a run
type RunStatus string

const (
	// StatusSuccess indicates every action succeeded
	StatusSuccess RunStatus = "success"
	// StatusPartial indicates some actions failed
	StatusPartial RunStatus = "partial"
	// StatusFailed indicates every action failed
	StatusFailed RunStatus = "failed"
	// StatusCancelled indicates the run stopped before the queue was drained
	StatusCancelled RunStatus = "cancelled"
)

// Status derives the run status from the counters
func (s RunSummary) Status() RunStatus {
	switch {
	case s.FailureCount > 0 && s.SuccessCount == 0:
		return StatusFailed
	case s.FailureCount > 0:
		return StatusPartial
	case s.Unresolved > 0:
		return StatusCancelled
	default:
		return StatusSuccess
	}
}

// Failures returns only the failed results
func (s RunSummary) Failures() []ActionResult {
	var failed []ActionResult
	for _, r := range s.Actions {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// ExitCode returns the process exit code for the status
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}
