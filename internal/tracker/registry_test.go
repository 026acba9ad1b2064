package tracker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revolveme/backend/internal/tracker"
)

func TestRegistry_Defaults(t *testing.T) {
	r := tracker.NewRegistry(nil)
	assert.Equal(t, []string{tracker.DefaultUser}, r.List())
	assert.Equal(t, 1, r.Count())
	assert.True(t, r.Has(tracker.DefaultUser))
}

func TestRegistry_Add(t *testing.T) {
	r := tracker.NewRegistry(nil)

	require.NoError(t, r.Add("Ana"))
	assert.Equal(t, []string{tracker.DefaultUser, "Ana"}, r.List())

	err := r.Add("Ana")
	assert.ErrorIs(t, err, tracker.ErrDuplicateUser)

	err = r.Add("")
	assert.ErrorIs(t, err, tracker.ErrInvalidName)

	// failed adds must not have touched the list
	assert.Equal(t, []string{tracker.DefaultUser, "Ana"}, r.List())
}

func TestRegistry_Rename(t *testing.T) {
	r := tracker.NewRegistry([]string{"Sam", "Ana"})

	require.NoError(t, r.Rename("Sam", "Samuel"))
	assert.Equal(t, []string{"Samuel", "Ana"}, r.List())

	assert.ErrorIs(t, r.Rename("Samuel", ""), tracker.ErrInvalidName)
	assert.ErrorIs(t, r.Rename("Samuel", "Samuel"), tracker.ErrInvalidName)
	assert.ErrorIs(t, r.Rename("Samuel", "Ana"), tracker.ErrInvalidName)
	assert.ErrorIs(t, r.Rename("Nobody", "Someone"), tracker.ErrInvalidName)
}

func TestRegistry_Remove(t *testing.T) {
	r := tracker.NewRegistry([]string{"Sam", "Ana", "Iva"})

	require.NoError(t, r.Remove("Ana"))
	assert.Equal(t, []string{"Sam", "Iva"}, r.List())

	assert.ErrorIs(t, r.Remove("Nobody"), tracker.ErrInvalidName)

	require.NoError(t, r.Remove("Sam"))
	assert.ErrorIs(t, r.Remove("Iva"), tracker.ErrLastUser)
	assert.Equal(t, []string{"Iva"}, r.List())
}

func TestRegistry_ListIsACopy(t *testing.T) {
	r := tracker.NewRegistry([]string{"Sam", "Ana"})
	users := r.List()
	users[0] = "Mallory"
	assert.Equal(t, []string{"Sam", "Ana"}, r.List())
}
