package models

// DuplicateGroup is a set of files sharing the same name across directories.
// Members are ordered by source index, then by listing order, so positions
// "(1)", "(2)" are stable for labels and exports.
type DuplicateGroup struct {
	// ID is the 1-based position of the group in the resolution queue
	ID int `json:"id"`

	// Name is the shared file name (stem)
	Name string `json:"name"`

	// Members holds at least two descriptors
	Members []FileDescriptor `json:"members"`

	// Decision is attached once the group has been resolved
	Decision *ActionChoice `json:"decision,omitempty"`

	// Result is attached together with Decision
	Result *ActionResult `json:"result,omitempty"`
}

// Size returns the number of members
func (g *DuplicateGroup) Size() int {
	return len(g.Members)
}

// Member returns the member at a 1-based position
func (g *DuplicateGroup) Member(position int) (FileDescriptor, bool) {
	if position < 1 || position > len(g.Members) {
		return FileDescriptor{}, false
	}
	return g.Members[position-1], true
}

// PositionsFrom returns the 1-based positions of the members listed from source
func (g *DuplicateGroup) PositionsFrom(source int) []int {
	var positions []int
	for i, m := range g.Members {
		if m.Source == source {
			positions = append(positions, i+1)
		}
	}
	return positions
}

// Sources returns the distinct source indexes in member order
func (g *DuplicateGroup) Sources() []int {
	seen := make(map[int]bool)
	var sources []int
	for _, m := range g.Members {
		if !seen[m.Source] {
			seen[m.Source] = true
			sources = append(sources, m.Source)
		}
	}
	return sources
}

// TotalBytes returns the combined size of all members
func (g *DuplicateGroup) TotalBytes() int64 {
	var total int64
	for _, m := range g.Members {
		total += m.Size
	}
	return total
}

// IsResolved returns true once a decision has been attached
func (g *DuplicateGroup) IsResolved() bool {
	return g.Decision != nil
}

// Attach records the final decision and its result on the group
func (g *DuplicateGroup) Attach(decision ActionChoice, result ActionResult) {
	g.Decision = &decision
	g.Result = &result
}
