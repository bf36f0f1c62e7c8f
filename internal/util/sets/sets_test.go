package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetBasics(t *testing.T) {
	s := New("b", "a")
	s.Add("c")
	require.True(t, s.Has("a"))
	require.False(t, s.Has("z"))

	s.Delete("a")
	require.False(t, s.Has("a"))
	require.Equal(t, []string{"b", "c"}, Sorted(s))
}

func TestSortedEmpty(t *testing.T) {
	require.Empty(t, Sorted(New[int]()))
}
