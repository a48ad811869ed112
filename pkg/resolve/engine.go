package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/sdejongh/dirtective/pkg/logging"
	"github.com/sdejongh/dirtective/pkg/models"
)

// ErrStop is returned by a Decider to end a drain early. The groups left in
// the queue are reported as unresolved.
var ErrStop = errors.New("resolution stopped")

// Prompt is what a Decider gets to choose from
type Prompt struct {
	Group   *models.DuplicateGroup
	Choices []models.ActionChoice
	Default models.ActionChoice
	// Position is the 1-based index of Group in the queue
	Position int
	Total    int
	// Allows reports whether the engine accepts choice for Group. Bulk
	// actions are not listed in Choices but may still be allowed.
	Allows func(choice models.ActionChoice) bool
}

// Decider picks an action for each group of a drain
type Decider interface {
	Decide(ctx context.Context, prompt Prompt) (models.ActionChoice, error)
}

// DeciderFunc adapts a function to the Decider interface
type DeciderFunc func(ctx context.Context, prompt Prompt) (models.ActionChoice, error)

// Decide calls f
func (f DeciderFunc) Decide(ctx context.Context, prompt Prompt) (models.ActionChoice, error) {
	return f(ctx, prompt)
}

// Options configures an Engine
type Options struct {
	// AllowedChoices restricts the actions offered and accepted (empty = all)
	AllowedChoices []models.ActionKind
	// OnResult is called after each group has been resolved
	OnResult func(group *models.DuplicateGroup, result models.ActionResult)
	Logger   logging.Logger
}

// Engine holds the state of one resolution run: the queue of groups, the
// executor applying decisions and the summary of their results
type Engine struct {
	groups   []*models.DuplicateGroup
	queue    *Queue
	executor *Executor
	summary  *Summary
	options  Options
	logger   logging.Logger
}

// NewEngine creates an engine over groups
func NewEngine(groups []*models.DuplicateGroup, executor *Executor, options Options) *Engine {
	logger := options.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	summary := NewSummary(len(groups))

	return &Engine{
		groups:   groups,
		queue:    NewQueue(groups),
		executor: executor,
		summary:  summary,
		options:  options,
		logger:   logger.WithFields(logging.Fields{"run_id": summary.RunID()}),
	}
}

// Groups returns the groups of the run, annotated as they are resolved
func (e *Engine) Groups() []*models.DuplicateGroup {
	return e.groups
}

// Queue exposes the queue for progress reporting
func (e *Engine) Queue() *Queue {
	return e.queue
}

// Next returns the group awaiting a decision, false when the queue is drained
func (e *Engine) Next() (*models.DuplicateGroup, bool) {
	return e.queue.Next()
}

// Choices returns the actions offered for group
func (e *Engine) Choices(group *models.DuplicateGroup) []models.ActionChoice {
	return Restrict(ComputeChoices(group), e.options.AllowedChoices)
}

// Allows reports whether choice may be applied to group
func (e *Engine) Allows(group *models.DuplicateGroup, choice models.ActionChoice) bool {
	switch choice.Kind {
	case models.ActionDeleteSide, models.ActionCopyOver, models.ActionMoveOver:
		if len(e.options.AllowedChoices) > 0 && !containsKind(e.options.AllowedChoices, choice.Kind) {
			return false
		}
		return len(group.PositionsFrom(choice.Side)) > 0 && len(group.Sources()) > 1
	default:
		return Contains(e.Choices(group), choice)
	}
}

// Decide applies choice to group, which must be the group returned by Next.
// The result is attached to the group and recorded in the summary. The
// returned error only reports misuse; action failures live in the result.
func (e *Engine) Decide(ctx context.Context, group *models.DuplicateGroup, choice models.ActionChoice) (models.ActionResult, error) {
	if group == nil || e.queue.Current() != group {
		return models.ActionResult{}, fmt.Errorf("failed to decide: group %q is not awaiting a decision", groupName(group))
	}
	if !e.Allows(group, choice) {
		return models.ActionResult{}, &models.ValidationError{
			Field:   "decision",
			Message: fmt.Sprintf("%s is not available for %q", choice, group.Name),
		}
	}

	result := e.executor.Apply(ctx, group, choice)

	if err := e.queue.RecordDecision(group, choice); err != nil {
		return result, err
	}
	group.Attach(choice, result)
	e.summary.Record(result)

	fields := logging.Fields{
		"group":   group.ID,
		"name":    group.Name,
		"action":  string(choice.Kind),
		"removed": len(result.Removed),
		"written": len(result.Written),
		"dry_run": result.DryRun,
	}
	switch {
	case result.Success:
		e.logger.Info(ctx, "Group resolved", fields)
	case result.ErrorKind == models.ErrorKindAmbiguousTie:
		e.logger.Warn(ctx, "Ambiguous tie, nothing removed", logging.Fields{
			"group": group.ID,
			"name":  group.Name,
			"error": result.Error,
		})
	default:
		e.logger.Error(ctx, "Action failed", errors.New(result.Error), fields)
	}

	if e.options.OnResult != nil {
		e.options.OnResult(group, result)
	}

	return result, nil
}

// Drain resolves groups one at a time until the queue is empty, the
// decider returns ErrStop, or ctx is cancelled. Cancellation is only
// checked between groups. The summary is returned in every case.
func (e *Engine) Drain(ctx context.Context, decider Decider) (models.RunSummary, error) {
	e.logger.Info(ctx, "Resolution started", logging.Fields{
		"groups":  e.queue.Total(),
		"dry_run": e.executor.DryRun(),
	})

	for {
		if err := ctx.Err(); err != nil {
			return e.finish(ctx, "cancelled"), err
		}

		group, ok := e.queue.Next()
		if !ok {
			break
		}

		choices := e.Choices(group)
		prompt := Prompt{
			Group:    group,
			Choices:  choices,
			Default:  DefaultChoice(choices),
			Position: e.queue.Position(),
			Total:    e.queue.Total(),
			Allows: func(choice models.ActionChoice) bool {
				return e.Allows(group, choice)
			},
		}

		choice, err := decider.Decide(ctx, prompt)
		if errors.Is(err, ErrStop) {
			return e.finish(ctx, "stopped"), nil
		}
		if err != nil {
			return e.finish(ctx, "aborted"), fmt.Errorf("failed to get a decision for %q: %w", group.Name, err)
		}

		if _, err := e.Decide(ctx, group, choice); err != nil {
			return e.finish(ctx, "aborted"), err
		}
	}

	return e.finish(ctx, "completed"), nil
}

// Summary returns the summary of the groups resolved so far
func (e *Engine) Summary() models.RunSummary {
	return e.summary.Finalize()
}

func (e *Engine) finish(ctx context.Context, reason string) models.RunSummary {
	summary := e.summary.Finalize()

	e.logger.Info(ctx, "Resolution "+reason, logging.Fields{
		"total":      summary.Total,
		"success":    summary.SuccessCount,
		"failed":     summary.FailureCount,
		"unresolved": summary.Unresolved,
		"status":     string(summary.Status()),
	})

	return summary
}
