package resolve

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sdejongh/dirtective/pkg/models"
)

// ComputeChoices returns the legal actions for group, in display order:
// keep all, delete all, delete from each position, then the size based and
// the date based choices when those attributes differ between members.
func ComputeChoices(group *models.DuplicateGroup) []models.ActionChoice {
	n := group.Size()
	choices := make([]models.ActionChoice, 0, n+6)

	keep, del := models.KeepAll(), models.DeleteAll()
	if n == 2 {
		keep.Label = "Keep both"
		del.Label = "Delete both"
	}
	choices = append(choices, keep, del)

	for pos := 1; pos <= n; pos++ {
		choices = append(choices, models.DeleteFromPosition(pos))
	}

	if sizesDiffer(group) {
		choices = append(choices,
			conditionalChoice(group, models.ActionDeleteLarger),
			conditionalChoice(group, models.ActionDeleteSmaller),
		)
	}
	if datesDiffer(group) {
		choices = append(choices,
			conditionalChoice(group, models.ActionDeleteNewer),
			conditionalChoice(group, models.ActionDeleteOlder),
		)
	}

	return choices
}

// DefaultChoice returns the pre-selected choice, which is always keep all
func DefaultChoice(choices []models.ActionChoice) models.ActionChoice {
	for _, c := range choices {
		if c.Kind == models.ActionKeepAll {
			return c
		}
	}
	return models.KeepAll()
}

// Restrict filters choices down to the allowed kinds. Keep all is never
// removed. An empty allowed list leaves choices unchanged.
func Restrict(choices []models.ActionChoice, allowed []models.ActionKind) []models.ActionChoice {
	if len(allowed) == 0 {
		return choices
	}

	filtered := make([]models.ActionChoice, 0, len(choices))
	for _, c := range choices {
		if c.Kind == models.ActionKeepAll || containsKind(allowed, c.Kind) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Find returns the choice of the given kind, if offered
func Find(choices []models.ActionChoice, kind models.ActionKind) (models.ActionChoice, bool) {
	for _, c := range choices {
		if c.Kind == kind {
			return c, true
		}
	}
	return models.ActionChoice{}, false
}

// Contains reports whether choice is one of choices, ignoring labels
func Contains(choices []models.ActionChoice, choice models.ActionChoice) bool {
	for _, c := range choices {
		if c.Same(choice) {
			return true
		}
	}
	return false
}

// ResolveTarget returns the position of the single member a conditional
// action applies to. It fails with *models.AmbiguousTieError when several
// members share the extreme value.
func ResolveTarget(group *models.DuplicateGroup, kind models.ActionKind) (int, error) {
	var positions []int
	var attribute string

	switch kind {
	case models.ActionDeleteLarger, models.ActionDeleteSmaller:
		attribute = "size"
		positions = extremeSize(group, kind == models.ActionDeleteLarger)
	case models.ActionDeleteNewer, models.ActionDeleteOlder:
		attribute = "creation time"
		positions = extremeDate(group, kind == models.ActionDeleteNewer)
	default:
		return 0, &models.ValidationError{Field: "action", Message: fmt.Sprintf("%s is not a conditional action", kind)}
	}

	if len(positions) == 0 {
		return 0, &models.ValidationError{Field: "group", Message: "group has no members"}
	}
	if len(positions) > 1 {
		return 0, &models.AmbiguousTieError{Attribute: attribute, Positions: positions}
	}
	return positions[0], nil
}

// conditionalChoice builds a conditional choice whose label names the
// member it resolves to
func conditionalChoice(group *models.DuplicateGroup, kind models.ActionKind) models.ActionChoice {
	choice := models.Conditional(kind)

	pos, err := ResolveTarget(group, kind)
	if err == nil {
		choice.Label = fmt.Sprintf("%s (%d)", choice.Label, pos)
		return choice
	}

	var tie *models.AmbiguousTieError
	if errors.As(err, &tie) {
		parts := make([]string, len(tie.Positions))
		for i, p := range tie.Positions {
			parts[i] = fmt.Sprint(p)
		}
		choice.Label = fmt.Sprintf("%s (ambiguous: %s)", choice.Label, strings.Join(parts, ", "))
	}
	return choice
}

// extremeSize returns the positions holding the largest (or smallest) size
func extremeSize(group *models.DuplicateGroup, largest bool) []int {
	var positions []int
	var best int64

	for i, m := range group.Members {
		switch {
		case len(positions) == 0,
			largest && m.Size > best,
			!largest && m.Size < best:
			best = m.Size
			positions = []int{i + 1}
		case m.Size == best:
			positions = append(positions, i+1)
		}
	}
	return positions
}

// extremeDate returns the positions holding the newest (or oldest) creation time
func extremeDate(group *models.DuplicateGroup, newest bool) []int {
	var positions []int
	var best time.Time

	for i, m := range group.Members {
		switch {
		case len(positions) == 0:
			best = m.CreatedAt
			positions = []int{i + 1}
		case newest && m.CreatedAt.After(best),
			!newest && m.CreatedAt.Before(best):
			best = m.CreatedAt
			positions = []int{i + 1}
		case m.CreatedAt.Equal(best):
			positions = append(positions, i+1)
		}
	}
	return positions
}

func sizesDiffer(group *models.DuplicateGroup) bool {
	if group.Size() < 2 {
		return false
	}
	for _, m := range group.Members[1:] {
		if m.Size != group.Members[0].Size {
			return true
		}
	}
	return false
}

func datesDiffer(group *models.DuplicateGroup) bool {
	if group.Size() < 2 {
		return false
	}
	for _, m := range group.Members[1:] {
		if !m.CreatedAt.Equal(group.Members[0].CreatedAt) {
			return true
		}
	}
	return false
}

func containsKind(kinds []models.ActionKind, kind models.ActionKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
