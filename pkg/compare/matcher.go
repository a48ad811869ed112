package compare

import "github.com/sdejongh/dirtective/pkg/models"

// Match groups the files of a and b that share the same name stem.
// Each group holds every a member followed by every b member. Groups are
// ordered by the first appearance of their name in a. Names are compared
// with case-sensitive equality.
func Match(a, b []models.FileDescriptor) []*models.DuplicateGroup {
	return MatchAll(a, b)
}

// MatchAll generalizes Match to any number of listings. A name qualifies
// when it appears in at least two distinct listings. Members are ordered by
// listing index, then by order within the listing.
func MatchAll(lists ...[]models.FileDescriptor) []*models.DuplicateGroup {
	if len(lists) < 2 {
		return []*models.DuplicateGroup{}
	}

	// members[name][i] holds the files named name in list i
	members := make(map[string][][]models.FileDescriptor)
	var order []string

	for i, list := range lists {
		for _, f := range list {
			perList, ok := members[f.Name]
			if !ok {
				perList = make([][]models.FileDescriptor, len(lists))
				members[f.Name] = perList
				order = append(order, f.Name)
			}
			perList[i] = append(perList[i], f)
		}
	}

	groups := make([]*models.DuplicateGroup, 0)
	for _, name := range order {
		perList := members[name]

		present := 0
		for _, files := range perList {
			if len(files) > 0 {
				present++
			}
		}
		if present < 2 {
			continue
		}

		group := &models.DuplicateGroup{
			ID:   len(groups) + 1,
			Name: name,
		}
		for _, files := range perList {
			group.Members = append(group.Members, files...)
		}
		groups = append(groups, group)
	}

	return groups
}

// IdentifyUnmatched returns the files whose name appears on one side only.
// Files without a "." in their base name are left out. Files from a come
// first.
func IdentifyUnmatched(a, b []models.FileDescriptor) []models.FileDescriptor {
	inA := nameSet(a)
	inB := nameSet(b)

	unique := make([]models.FileDescriptor, 0)
	for _, f := range a {
		if !inB[f.Name] && f.HasExtension() {
			unique = append(unique, f)
		}
	}
	for _, f := range b {
		if !inA[f.Name] && f.HasExtension() {
			unique = append(unique, f)
		}
	}

	return unique
}

func nameSet(files []models.FileDescriptor) map[string]bool {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f.Name] = true
	}
	return set
}
