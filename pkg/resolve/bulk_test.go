package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dirtective/pkg/compare"
	"github.com/sdejongh/dirtective/pkg/models"
)

func TestParsePolicy(t *testing.T) {
	for _, p := range Policies() {
		parsed, err := ParsePolicy(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
		assert.NotEqual(t, string(p), p.Description())
	}

	parsed, err := ParsePolicy("  Delete-Older ")
	require.NoError(t, err)
	assert.Equal(t, PolicyDeleteOlder, parsed)

	_, err = ParsePolicy("shred")
	assert.Equal(t, models.ErrorKindValidation, models.ClassifyError(err))
}

func TestPolicyChoice(t *testing.T) {
	_, group := reportGroup(t)
	choices := ComputeChoices(group)

	tests := []struct {
		policy   Policy
		expected models.ActionChoice
	}{
		{PolicyKeepAll, models.KeepAll()},
		{PolicyDeleteAll, models.DeleteAll()},
		{PolicyDeletePrimary, models.DeleteSide(Primary)},
		{PolicyDeleteSecondary, models.DeleteSide(Secondary)},
		{PolicyDeleteOlder, models.Conditional(models.ActionDeleteOlder)},
		{PolicyDeleteNewer, models.Conditional(models.ActionDeleteNewer)},
		{PolicyDeleteLarger, models.Conditional(models.ActionDeleteLarger)},
		{PolicyDeleteSmaller, models.Conditional(models.ActionDeleteSmaller)},
		{PolicyCopyPrimary, models.CopyOver(Primary)},
		{PolicyMovePrimary, models.MoveOver(Primary)},
		{PolicyCopySecondary, models.CopyOver(Secondary)},
		{PolicyMoveSecondary, models.MoveOver(Secondary)},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			choice, ok := tt.policy.Choice(group, choices)
			require.True(t, ok)
			assert.True(t, choice.Same(tt.expected), "got %+v", choice)
		})
	}
}

func TestPolicyChoice_NotApplicable(t *testing.T) {
	backend, files := newFixture(t,
		memFile{"/a/x.txt", 5, jan2023, 0},
		memFile{"/b/x.txt", 5, jan2023, 1},
	)
	group := newGroup(1, files...)
	choices := ComputeChoices(group)

	for _, p := range []Policy{PolicyDeleteLarger, PolicyDeleteSmaller, PolicyDeleteNewer, PolicyDeleteOlder} {
		_, ok := p.Choice(group, choices)
		assert.False(t, ok, "%s should not apply to identical members", p)
	}

	// The bulk decider keeps such groups
	engine := NewEngine([]*models.DuplicateGroup{group}, NewExecutor(backend, ExecutorOptions{}, nil), Options{})
	summary, err := engine.Drain(context.Background(), NewBulkDecider(PolicyDeleteLarger))
	require.NoError(t, err)
	require.Len(t, summary.Actions, 1)
	assert.Equal(t, models.ActionKeepAll, summary.Actions[0].Decision.Kind)
	assert.True(t, exists(t, backend, "/a/x.txt"))
	assert.True(t, exists(t, backend, "/b/x.txt"))
}

func TestPolicyChoice_TieIsKept(t *testing.T) {
	_, files := newFixture(t,
		memFile{"/a/x.txt", 9, jan2023, 0},
		memFile{"/b/x.txt", 9, june2023, 1},
		memFile{"/c/x.txt", 1, june2023, 2},
	)
	group := newGroup(1, files...)

	_, ok := PolicyDeleteLarger.Choice(group, ComputeChoices(group))
	assert.False(t, ok)

	choice, ok := PolicyDeleteSmaller.Choice(group, ComputeChoices(group))
	require.True(t, ok)
	assert.Equal(t, "Delete smaller file (3)", choice.Label)
}

func TestBulkDecider_Drain(t *testing.T) {
	local, files := newFixture(t,
		memFile{"/a/one.txt", 1, jan2023, 0},
		memFile{"/a/two.txt", 2, june2023, 0},
		memFile{"/a/solo.txt", 3, jan2023, 0},
		memFile{"/b/one.txt", 10, june2023, 1},
		memFile{"/b/two.txt", 20, jan2023, 1},
	)
	groups := compare.Match(files[:3], files[3:])
	require.Len(t, groups, 2)

	engine := NewEngine(groups, NewExecutor(local, ExecutorOptions{}, nil), Options{})
	summary, err := engine.Drain(context.Background(), NewBulkDecider(PolicyDeleteOlder))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, models.StatusSuccess, summary.Status())
	assert.False(t, exists(t, local, "/a/one.txt"))
	assert.True(t, exists(t, local, "/b/one.txt"))
	assert.True(t, exists(t, local, "/a/two.txt"))
	assert.False(t, exists(t, local, "/b/two.txt"))
	assert.True(t, exists(t, local, "/a/solo.txt"))
}

func TestBulkDecider_MovePrimary(t *testing.T) {
	local, files := newFixture(t,
		memFile{"/a/doc.txt", 4, jan2023, 0},
		memFile{"/b/doc.txt", 8, june2023, 1},
	)

	engine := NewEngine(compare.Match(files[:1], files[1:]), NewExecutor(local, ExecutorOptions{}, nil), Options{})
	summary, err := engine.Drain(context.Background(), NewBulkDecider(PolicyMovePrimary))
	require.NoError(t, err)
	require.Len(t, summary.Actions, 1)
	assert.True(t, summary.Actions[0].Success, summary.Actions[0].Error)

	assert.False(t, exists(t, local, "/a/doc.txt"))
	info, err := local.Stat(context.Background(), "/b/doc.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(4), info.Size)
}

func TestBulkDecider_RespectsAllowedChoices(t *testing.T) {
	local, files := newFixture(t,
		memFile{"/a/doc.txt", 4, jan2023, 0},
		memFile{"/b/doc.txt", 8, june2023, 1},
	)

	engine := NewEngine(compare.Match(files[:1], files[1:]), NewExecutor(local, ExecutorOptions{}, nil), Options{
		AllowedChoices: []models.ActionKind{models.ActionDeletePosition},
	})
	summary, err := engine.Drain(context.Background(), NewBulkDecider(PolicyDeletePrimary))
	require.NoError(t, err)

	assert.Equal(t, models.ActionKeepAll, summary.Actions[0].Decision.Kind)
	assert.True(t, exists(t, local, "/a/doc.txt"))
}
