package resolve

import (
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/dirtective/pkg/models"
)

// Summary aggregates action results over one run
type Summary struct {
	runID     string
	startedAt time.Time
	total     int
	actions   []models.ActionResult
	success   int
	failure   int
	now       func() time.Time
}

// NewSummary creates a summary for a run over total groups
func NewSummary(total int) *Summary {
	return &Summary{
		runID:     uuid.New().String(),
		startedAt: time.Now(),
		total:     total,
		actions:   make([]models.ActionResult, 0, total),
		now:       time.Now,
	}
}

// RunID returns the identifier of the run
func (s *Summary) RunID() string {
	return s.runID
}

// Record appends result and updates the counters
func (s *Summary) Record(result models.ActionResult) {
	s.actions = append(s.actions, result)
	if result.Success {
		s.success++
	} else {
		s.failure++
	}
}

// Finalize returns the run summary. Groups without a recorded result are
// reported as unresolved.
func (s *Summary) Finalize() models.RunSummary {
	actions := make([]models.ActionResult, len(s.actions))
	copy(actions, s.actions)

	return models.RunSummary{
		RunID:        s.runID,
		StartedAt:    s.startedAt,
		CompletedAt:  s.now(),
		Total:        s.total,
		SuccessCount: s.success,
		FailureCount: s.failure,
		Unresolved:   s.total - len(s.actions),
		Actions:      actions,
	}
}
