package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/sdejongh/dirtective/pkg/models"
)

// Policy is a bulk resolution policy applied to every group of a run
type Policy string

const (
	PolicyKeepAll         Policy = "keep-all"
	PolicyDeleteAll       Policy = "delete-all"
	PolicyDeletePrimary   Policy = "delete-primary"
	PolicyDeleteSecondary Policy = "delete-secondary"
	PolicyDeleteOlder     Policy = "delete-older"
	PolicyDeleteNewer     Policy = "delete-newer"
	PolicyDeleteLarger    Policy = "delete-larger"
	PolicyDeleteSmaller   Policy = "delete-smaller"
	PolicyCopyPrimary     Policy = "copy-primary"
	PolicyMovePrimary     Policy = "move-primary"
	PolicyCopySecondary   Policy = "copy-secondary"
	PolicyMoveSecondary   Policy = "move-secondary"
)

// Source indexes of the two compared directories
const (
	Primary   = 0
	Secondary = 1
)

var policyDescriptions = []struct {
	policy      Policy
	description string
}{
	{PolicyKeepAll, "Keep every file"},
	{PolicyDeleteAll, "Delete every duplicate"},
	{PolicyDeletePrimary, "Delete all duplicates from the primary directory"},
	{PolicyDeleteSecondary, "Delete all duplicates from the secondary directory"},
	{PolicyDeleteOlder, "Delete the older file of each group"},
	{PolicyDeleteNewer, "Delete the newer file of each group"},
	{PolicyDeleteLarger, "Delete the larger file of each group"},
	{PolicyDeleteSmaller, "Delete the smaller file of each group"},
	{PolicyCopyPrimary, "Copy files from primary to secondary"},
	{PolicyMovePrimary, "Move files from primary to secondary"},
	{PolicyCopySecondary, "Copy files from secondary to primary"},
	{PolicyMoveSecondary, "Move files from secondary to primary"},
}

// Policies returns every bulk policy, in menu order
func Policies() []Policy {
	policies := make([]Policy, len(policyDescriptions))
	for i, p := range policyDescriptions {
		policies[i] = p.policy
	}
	return policies
}

// Description returns the menu text of the policy
func (p Policy) Description() string {
	for _, d := range policyDescriptions {
		if d.policy == p {
			return d.description
		}
	}
	return string(p)
}

// ParsePolicy validates a policy name
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range Policies() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", &models.ValidationError{
		Field:   "policy",
		Message: fmt.Sprintf("unknown policy %q", s),
	}
}

// Choice maps the policy to an action for group. The second return value
// is false when the action cannot apply, e.g. delete-larger on members of
// equal size.
func (p Policy) Choice(group *models.DuplicateGroup, choices []models.ActionChoice) (models.ActionChoice, bool) {
	switch p {
	case PolicyKeepAll:
		return DefaultChoice(choices), true
	case PolicyDeleteAll:
		return Find(choices, models.ActionDeleteAll)
	case PolicyDeletePrimary:
		return models.DeleteSide(Primary), true
	case PolicyDeleteSecondary:
		return models.DeleteSide(Secondary), true
	case PolicyDeleteOlder:
		return conditional(group, choices, models.ActionDeleteOlder)
	case PolicyDeleteNewer:
		return conditional(group, choices, models.ActionDeleteNewer)
	case PolicyDeleteLarger:
		return conditional(group, choices, models.ActionDeleteLarger)
	case PolicyDeleteSmaller:
		return conditional(group, choices, models.ActionDeleteSmaller)
	case PolicyCopyPrimary:
		return models.CopyOver(Primary), true
	case PolicyMovePrimary:
		return models.MoveOver(Primary), true
	case PolicyCopySecondary:
		return models.CopyOver(Secondary), true
	case PolicyMoveSecondary:
		return models.MoveOver(Secondary), true
	default:
		return models.ActionChoice{}, false
	}
}

// conditional returns the offered conditional choice when it resolves to a
// single member
func conditional(group *models.DuplicateGroup, choices []models.ActionChoice, kind models.ActionKind) (models.ActionChoice, bool) {
	choice, ok := Find(choices, kind)
	if !ok {
		return choice, false
	}
	if _, err := ResolveTarget(group, kind); err != nil {
		return choice, false
	}
	return choice, true
}

// BulkDecider applies one policy to every group. Groups the policy cannot
// apply to are kept.
type BulkDecider struct {
	policy Policy
}

// NewBulkDecider creates a decider for policy
func NewBulkDecider(policy Policy) *BulkDecider {
	return &BulkDecider{policy: policy}
}

// Policy returns the policy applied
func (d *BulkDecider) Policy() Policy {
	return d.policy
}

// Decide implements Decider
func (d *BulkDecider) Decide(ctx context.Context, prompt Prompt) (models.ActionChoice, error) {
	choice, ok := d.policy.Choice(prompt.Group, prompt.Choices)
	if !ok || (prompt.Allows != nil && !prompt.Allows(choice)) {
		return prompt.Default, nil
	}
	return choice, nil
}
