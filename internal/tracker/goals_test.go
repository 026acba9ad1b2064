package tracker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revolveme/backend/internal/tracker"
)

func TestGoals_YearGoal(t *testing.T) {
	var g tracker.Goals

	require.NoError(t, g.SetYearDraft("  bench 100kg  "))
	assert.False(t, g.Year.Locked)

	// locking trims the draft
	assert.True(t, g.LockYear())
	assert.True(t, g.Year.Locked)
	assert.Equal(t, "bench 100kg", g.Year.Value)

	// locked goal rejects further edits
	assert.ErrorIs(t, g.SetYearDraft("squat 200kg"), tracker.ErrGoalLocked)
	assert.Equal(t, "bench 100kg", g.Year.Value)

	// locking again stays locked
	assert.True(t, g.LockYear())
}

func TestGoals_LockBlankYearGoalIsNoop(t *testing.T) {
	var g tracker.Goals

	assert.False(t, g.LockYear())
	assert.False(t, g.Year.Locked)

	require.NoError(t, g.SetYearDraft("   "))
	assert.False(t, g.LockYear())
	assert.False(t, g.Year.Locked)
}

func TestGoals_WeightGoal(t *testing.T) {
	var g tracker.Goals

	require.NoError(t, g.SetWeightDraft(82.5))
	assert.True(t, g.LockWeight())
	assert.True(t, g.Weight.Locked)

	assert.ErrorIs(t, g.SetWeightDraft(80), tracker.ErrGoalLocked)
	assert.Equal(t, 82.5, g.Weight.Value)
}

func TestGoals_LockNonPositiveWeightGoalIsNoop(t *testing.T) {
	var g tracker.Goals

	assert.False(t, g.LockWeight())

	require.NoError(t, g.SetWeightDraft(-5))
	assert.False(t, g.LockWeight())
	assert.False(t, g.Weight.Locked)
}

func TestGoals_ResetUnlocks(t *testing.T) {
	var g tracker.Goals
	require.NoError(t, g.SetYearDraft("run a marathon"))
	require.NoError(t, g.SetWeightDraft(75))
	g.LockYear()
	g.LockWeight()

	g.Reset()

	assert.Equal(t, tracker.Goals{}, g)
	require.NoError(t, g.SetYearDraft("new goal"))
	require.NoError(t, g.SetWeightDraft(70))
}
