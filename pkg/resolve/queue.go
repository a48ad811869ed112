package resolve

import (
	"fmt"

	"github.com/sdejongh/dirtective/pkg/models"
)

// Queue is the FIFO of duplicate groups awaiting a decision.
// The total is fixed at creation and Processed()+Remaining() == Total()
// holds at all times.
type Queue struct {
	groups []*models.DuplicateGroup
	// head is the index of the next group to pop
	head      int
	current   *models.DuplicateGroup
	processed int
}

// NewQueue creates a queue over groups, in order
func NewQueue(groups []*models.DuplicateGroup) *Queue {
	copied := make([]*models.DuplicateGroup, len(groups))
	copy(copied, groups)
	return &Queue{groups: copied}
}

// Next pops the head of the queue. It returns false once every group has
// been popped and decided. A popped group that has not been decided yet is
// returned again rather than skipped.
func (q *Queue) Next() (*models.DuplicateGroup, bool) {
	if q.current != nil {
		return q.current, true
	}
	if q.head >= len(q.groups) {
		return nil, false
	}

	q.current = q.groups[q.head]
	q.head++
	return q.current, true
}

// RecordDecision attaches decision to the popped group and marks it processed
func (q *Queue) RecordDecision(group *models.DuplicateGroup, decision models.ActionChoice) error {
	if q.current == nil || group != q.current {
		return fmt.Errorf("failed to record decision: group %q is not awaiting a decision", groupName(group))
	}

	group.Decision = &decision
	q.current = nil
	q.processed++
	return nil
}

// Current returns the popped group awaiting a decision, or nil
func (q *Queue) Current() *models.DuplicateGroup {
	return q.current
}

// Total returns the number of groups the queue was created with
func (q *Queue) Total() int {
	return len(q.groups)
}

// Processed returns the number of decided groups
func (q *Queue) Processed() int {
	return q.processed
}

// Remaining returns the number of undecided groups, including a popped one
func (q *Queue) Remaining() int {
	return len(q.groups) - q.processed
}

// Position returns the 1-based index of the group awaiting a decision, or 0
func (q *Queue) Position() int {
	if q.current == nil {
		return 0
	}
	return q.head
}

// Done reports whether the terminal state has been reached
func (q *Queue) Done() bool {
	return q.current == nil && q.head >= len(q.groups)
}

func groupName(group *models.DuplicateGroup) string {
	if group == nil {
		return "<nil>"
	}
	return group.Name
}
