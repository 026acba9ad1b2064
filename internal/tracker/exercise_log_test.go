package tracker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revolveme/backend/internal/tracker"
)

func TestLog_SetWeight(t *testing.T) {
	l := tracker.NewLog(nil, nil, nil)

	kilos := l.SetWeight("benchpress", "Ana", "62.5")
	assert.Equal(t, 62.5, kilos)

	stored, ok := l.Weight("benchpress", "Ana")
	assert.True(t, ok)
	assert.Equal(t, 62.5, stored)

	// negative clamps to zero, which removes the record
	kilos = l.SetWeight("benchpress", "Ana", "-10")
	assert.Equal(t, 0.0, kilos)
	_, ok = l.Weight("benchpress", "Ana")
	assert.False(t, ok)

	// unparseable input treated as zero
	kilos = l.SetWeight("squats", "Ana", "heavy")
	assert.Equal(t, 0.0, kilos)
	_, ok = l.Weight("squats", "Ana")
	assert.False(t, ok)
}

func TestLog_SetWeight_ZeroClears(t *testing.T) {
	l := tracker.NewLog(nil, nil, nil)

	l.SetWeight("benchpress", "Ana", "60")
	_, ok := l.Weight("benchpress", "Ana")
	assert.True(t, ok)

	l.SetWeight("benchpress", "Ana", "0")
	_, ok = l.Weight("benchpress", "Ana")
	assert.False(t, ok)
}

func TestLog_Notes(t *testing.T) {
	l := tracker.NewLog(nil, nil, nil)
	assert.Equal(t, "", l.Note("benchpress"))

	l.SetNote("benchpress", "grip slightly wider")
	assert.Equal(t, "grip slightly wider", l.Note("benchpress"))

	// empty string is a valid note
	l.SetNote("benchpress", "")
	assert.Equal(t, "", l.Note("benchpress"))
}

func TestLog_ToggleCompletion(t *testing.T) {
	l := tracker.NewLog(nil, nil, nil)
	assert.False(t, l.IsCompleted("squats"))

	assert.True(t, l.ToggleCompletion("squats"))
	assert.True(t, l.IsCompleted("squats"))

	assert.False(t, l.ToggleCompletion("squats"))
	assert.False(t, l.IsCompleted("squats"))
}

func TestLog_RenameUser(t *testing.T) {
	l := tracker.NewLog(nil, nil, nil)
	l.SetWeight("benchpress", "Sam", "70")
	l.SetWeight("squats", "Sam", "100")
	l.SetWeight("benchpress", "Ana", "50")

	l.RenameUser("Sam", "Samuel")

	kilos, ok := l.Weight("benchpress", "Samuel")
	assert.True(t, ok)
	assert.Equal(t, 70.0, kilos)
	kilos, ok = l.Weight("squats", "Samuel")
	assert.True(t, ok)
	assert.Equal(t, 100.0, kilos)

	_, ok = l.Weight("benchpress", "Sam")
	assert.False(t, ok)

	// other users untouched
	kilos, ok = l.Weight("benchpress", "Ana")
	assert.True(t, ok)
	assert.Equal(t, 50.0, kilos)
}

func TestLog_RemoveUser(t *testing.T) {
	l := tracker.NewLog(nil, nil, nil)
	l.SetWeight("benchpress", "Sam", "70")
	l.SetWeight("benchpress", "Ana", "50")

	l.RemoveUser("Sam")

	_, ok := l.Weight("benchpress", "Sam")
	assert.False(t, ok)
	_, ok = l.Weight("benchpress", "Ana")
	assert.True(t, ok)
}
