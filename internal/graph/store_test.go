package graph

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/taskgridgo/internal/task"
)

func noop(ctx context.Context, deps task.ResultMap) (any, error) {
	return nil, nil
}

func TestStore_AddRejectsEmptyName(t *testing.T) {
	s := NewStore()
	err := s.Add("", nil, noop, false)
	require.ErrorIs(t, err, ErrEmptyTaskName)
}

func TestStore_AddRejectsDuplicateWithoutOverwrite(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("build", nil, noop, false))

	err := s.Add("build", nil, noop, false)
	require.ErrorIs(t, err, ErrTaskExists)
}

func TestStore_AddOverwriteReplacesDefinition(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("build", []string{"gen"}, noop, false))
	require.NoError(t, s.Add("build", []string{"lint"}, noop, true))

	assert.Equal(t, []string{"lint"}, s.List()["build"])
}

func TestStore_AddDeduplicatesDeps(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("build", []string{"gen", "lint", "gen"}, noop, false))

	assert.Equal(t, []string{"gen", "lint"}, s.List()["build"])
}

func TestStore_AddAllowsUnregisteredDeps(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("build", []string{"does-not-exist"}, noop, false))
}

func TestStore_RemoveUnknownIsNoop(t *testing.T) {
	s := NewStore()
	s.Remove("ghost")
	assert.Empty(t, s.List())
}

func TestStore_RemoveLeavesDanglingReferences(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("gen", nil, noop, false))
	require.NoError(t, s.Add("build", []string{"gen"}, noop, false))

	s.Remove("gen")

	list := s.List()
	require.NotContains(t, list, "gen")
	assert.Equal(t, []string{"gen"}, list["build"], "build must keep its reference to the removed task")
}

func TestStore_AddDeps(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("build", []string{"gen"}, noop, false))

	require.NoError(t, s.AddDeps("build", []string{"lint", "gen", "lint"}))
	assert.Equal(t, []string{"gen", "lint"}, s.List()["build"])

	err := s.AddDeps("ghost", []string{"gen"})
	require.ErrorIs(t, err, ErrUnknownTask)
}

func TestStore_RemoveDeps(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("build", []string{"gen", "lint", "vet"}, noop, false))

	require.NoError(t, s.RemoveDeps("build", []string{"lint", "never-listed"}))
	assert.Equal(t, []string{"gen", "vet"}, s.List()["build"])

	err := s.RemoveDeps("ghost", []string{"gen"})
	require.ErrorIs(t, err, ErrUnknownTask)
}

func TestStore_ListReturnsSnapshot(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("build", []string{"gen"}, noop, false))
	require.NoError(t, s.Add("gen", nil, noop, false))

	list := s.List()
	list["build"][0] = "mutated"
	list["injected"] = []string{"x"}
	delete(list, "gen")

	want := map[string][]string{
		"build": {"gen"},
		"gen":   {},
	}
	if diff := cmp.Diff(want, s.List(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("snapshot leaked mutations (-want +got):\n%s", diff)
	}
}

func TestStore_SnapshotIsolatedFromLaterMutations(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("build", []string{"gen"}, noop, false))

	snap := s.Snapshot()
	require.NoError(t, s.AddDeps("build", []string{"lint"}))

	assert.Equal(t, []string{"gen"}, snap["build"].Deps)
}
