package collections_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnect/internal/collections"
)

type entry struct {
	ID     string
	Owner  uint
	Detail string
}

func byID(id string) func(entry) bool {
	return func(e entry) bool { return e.ID == id }
}

func TestPushFront(t *testing.T) {
	t.Run("inserts at position zero", func(t *testing.T) {
		list := []entry{{ID: "a"}, {ID: "b"}}
		out := collections.PushFront(list, entry{ID: "c"})

		require.Len(t, out, 3)
		assert.Equal(t, "c", out[0].ID)
		assert.Equal(t, "a", out[1].ID)
		assert.Equal(t, "b", out[2].ID)
	})

	t.Run("does not mutate the input slice", func(t *testing.T) {
		list := []entry{{ID: "a"}}
		_ = collections.PushFront(list, entry{ID: "b"})

		require.Len(t, list, 1)
		assert.Equal(t, "a", list[0].ID)
	})

	t.Run("works on an empty collection", func(t *testing.T) {
		out := collections.PushFront(nil, entry{ID: "only"})
		require.Len(t, out, 1)
		assert.Equal(t, "only", out[0].ID)
	})
}

func TestToggleAdd(t *testing.T) {
	t.Run("adds when no entry matches", func(t *testing.T) {
		out, err := collections.ToggleAdd([]entry{{ID: "a"}}, entry{ID: "b"}, byID("b"))
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "b", out[0].ID)
	})

	t.Run("rejects a duplicate and leaves the collection unchanged", func(t *testing.T) {
		list := []entry{{ID: "a"}, {ID: "b"}}
		out, err := collections.ToggleAdd(list, entry{ID: "b"}, byID("b"))

		require.ErrorIs(t, err, collections.ErrDuplicateEntry)
		assert.Equal(t, list, out)
	})
}

func TestToggleRemove(t *testing.T) {
	t.Run("removes the matched entry", func(t *testing.T) {
		list := []entry{{ID: "a"}, {ID: "b"}, {ID: "c"}}
		out, err := collections.ToggleRemove(list, byID("b"))

		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "a", out[0].ID)
		assert.Equal(t, "c", out[1].ID)
	})

	t.Run("returns ErrEntryNotFound when nothing matches", func(t *testing.T) {
		list := []entry{{ID: "a"}}
		out, err := collections.ToggleRemove(list, byID("zzz"))

		require.ErrorIs(t, err, collections.ErrEntryNotFound)
		assert.Equal(t, list, out)
	})
}

func TestRemoveMatching(t *testing.T) {
	t.Run("removes by predicate, not by position", func(t *testing.T) {
		// Entries whose IDs are substrings of each other must still resolve
		// to exactly one removal.
		list := []entry{{ID: "11"}, {ID: "1"}, {ID: "111"}}
		out, err := collections.RemoveMatching(list, byID("1"))

		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "11", out[0].ID)
		assert.Equal(t, "111", out[1].ID)
	})

	t.Run("removes only the first match", func(t *testing.T) {
		list := []entry{{ID: "dup", Detail: "first"}, {ID: "dup", Detail: "second"}}
		out, err := collections.RemoveMatching(list, byID("dup"))

		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "second", out[0].Detail)
	})
}

func TestRemoveOwned(t *testing.T) {
	list := []entry{
		{ID: "a", Owner: 1},
		{ID: "b", Owner: 2},
	}

	t.Run("removes an entry the actor owns", func(t *testing.T) {
		out, err := collections.RemoveOwned(list, byID("a"),
			func(e entry) bool { return e.Owner == 1 })

		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "b", out[0].ID)
	})

	t.Run("rejects removal of another actor's entry", func(t *testing.T) {
		out, err := collections.RemoveOwned(list, byID("b"),
			func(e entry) bool { return e.Owner == 1 })

		require.ErrorIs(t, err, collections.ErrEntryNotOwned)
		assert.Equal(t, list, out)
	})

	t.Run("returns ErrEntryNotFound for an unknown entry", func(t *testing.T) {
		_, err := collections.RemoveOwned(list, byID("zzz"),
			func(e entry) bool { return true })
		require.ErrorIs(t, err, collections.ErrEntryNotFound)
	})
}
