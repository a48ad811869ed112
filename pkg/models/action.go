package models

import "fmt"

// ActionKind identifies what should happen to the members of a group
type ActionKind string

const (
	// ActionKeepAll leaves every member on disk
	ActionKeepAll ActionKind = "keep-all"
	// ActionDeleteAll removes every member
	ActionDeleteAll ActionKind = "delete-all"
	// ActionDeletePosition removes the member at Position
	ActionDeletePosition ActionKind = "delete-position"
	// ActionDeleteLarger removes the single largest member
	ActionDeleteLarger ActionKind = "delete-larger"
	// ActionDeleteSmaller removes the single smallest member
	ActionDeleteSmaller ActionKind = "delete-smaller"
	// ActionDeleteNewer removes the most recently created member
	ActionDeleteNewer ActionKind = "delete-newer"
	// ActionDeleteOlder removes the least recently created member
	ActionDeleteOlder ActionKind = "delete-older"
	// ActionDeleteSide removes every member listed from directory Side
	ActionDeleteSide ActionKind = "delete-side"
	// ActionCopyOver copies members from directory Side over the other directories
	ActionCopyOver ActionKind = "copy-over"
	// ActionMoveOver moves members from directory Side over the other directories
	ActionMoveOver ActionKind = "move-over"
)

// ActionChoice is one decision that can be applied to a group.
// Position is 1-based and only meaningful for ActionDeletePosition;
// Side is a source index and only meaningful for the side, copy and move kinds.
type ActionChoice struct {
	Kind     ActionKind `json:"kind"`
	Position int        `json:"position,omitempty"`
	Side     int        `json:"side"`
	Label    string     `json:"label"`
}

// KeepAll returns the non-destructive choice
func KeepAll() ActionChoice {
	return ActionChoice{Kind: ActionKeepAll, Label: "Keep all"}
}

// DeleteAll returns the choice removing every member
func DeleteAll() ActionChoice {
	return ActionChoice{Kind: ActionDeleteAll, Label: "Delete all"}
}

// DeleteFromPosition returns the choice removing the member at position (1-based)
func DeleteFromPosition(position int) ActionChoice {
	return ActionChoice{
		Kind:     ActionDeletePosition,
		Position: position,
		Label:    fmt.Sprintf("Delete from (%d)", position),
	}
}

// Conditional returns one of the attribute-based delete choices
func Conditional(kind ActionKind) ActionChoice {
	return ActionChoice{Kind: kind, Label: conditionalLabels[kind]}
}

// DeleteSide returns the choice removing every member listed from source
func DeleteSide(source int) ActionChoice {
	return ActionChoice{
		Kind:  ActionDeleteSide,
		Side:  source,
		Label: fmt.Sprintf("Delete all from (%d)", source+1),
	}
}

// CopyOver returns the choice copying members of source over the other directories
func CopyOver(source int) ActionChoice {
	return ActionChoice{
		Kind:  ActionCopyOver,
		Side:  source,
		Label: fmt.Sprintf("Copy from (%d) over the other directories", source+1),
	}
}

// MoveOver returns the choice moving members of source over the other directories
func MoveOver(source int) ActionChoice {
	return ActionChoice{
		Kind:  ActionMoveOver,
		Side:  source,
		Label: fmt.Sprintf("Move from (%d) over the other directories", source+1),
	}
}

var conditionalLabels = map[ActionKind]string{
	ActionDeleteLarger:  "Delete larger file",
	ActionDeleteSmaller: "Delete smaller file",
	ActionDeleteNewer:   "Delete newer file",
	ActionDeleteOlder:   "Delete older file",
}

// IsConditional reports whether the kind resolves its target by comparing attributes
func (k ActionKind) IsConditional() bool {
	_, ok := conditionalLabels[k]
	return ok
}

// IsDestructive reports whether applying the choice can remove or overwrite files
func (c ActionChoice) IsDestructive() bool {
	return c.Kind != ActionKeepAll
}

// Same compares two choices ignoring their labels
func (c ActionChoice) Same(other ActionChoice) bool {
	return c.Kind == other.Kind && c.Position == other.Position && c.Side == other.Side
}

func (c ActionChoice) String() string {
	if c.Label != "" {
		return c.Label
	}
	return string(c.Kind)
}
