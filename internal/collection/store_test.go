package collection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReplaceAndRemovePreserveOrder(t *testing.T) {
	t.Parallel()
	s := NewStore[item]()
	for _, r := range []item{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}, {ID: "c", Title: "C"}} {
		s.Insert(r)
	}

	require.NoError(t, s.Replace("b", item{ID: "b", Title: "B2"}))
	assert.Equal(t, []string{"a:A", "b:B2", "c:C"}, titles(s.Records()))
	assert.ErrorIs(t, s.Replace("zzz", item{ID: "zzz"}), ErrNotFound)

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, []string{"b:B2", "c:C"}, titles(s.Records()))
	assert.Equal(t, 2, s.Len())
}

func TestStore_RecordsIsACopy(t *testing.T) {
	t.Parallel()
	s := NewStore[item]()
	s.Insert(item{ID: "a", Title: "A"})
	got := s.Records()
	got[0].Title = "mutated"
	r, ok := s.Find("a")
	require.True(t, ok)
	assert.Equal(t, "A", r.Title)
}

func TestStore_HasTitle(t *testing.T) {
	t.Parallel()
	s := NewStore[item]()
	s.Insert(item{ID: "a", Title: " Alpha "})
	assert.True(t, s.HasTitle("Alpha", ""))
	assert.False(t, s.HasTitle("Alpha", "a"))
	assert.False(t, s.HasTitle("ALPHA", ""))
}

func TestStore_ClosedIgnoresMutations(t *testing.T) {
	t.Parallel()
	s := NewStore[item]()
	s.Insert(item{ID: "a", Title: "A"})
	s.Close()

	s.Insert(item{ID: "b", Title: "B"})
	assert.NoError(t, s.Replace("a", item{ID: "a", Title: "A2"}))
	assert.False(t, s.Remove("a"))
	require.NoError(t, s.Load(context.Background(), newFakeRemote(), "u1"))
	assert.Equal(t, []string{"a:A"}, titles(s.Records()))
}
