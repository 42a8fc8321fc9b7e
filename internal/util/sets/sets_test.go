package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New("a", "b")
	s.Add("c")
	s.Add("a")
	assert.True(t, s.Has("b"))
	assert.False(t, s.Has("d"))
	assert.Equal(t, []string{"a", "b", "c"}, Sorted(s))
}

func TestDedupFold(t *testing.T) {
	got := DedupFold([]string{"Fast", "cheap", "FAST", "Good", "Cheap"})
	assert.Equal(t, []string{"Fast", "cheap", "Good"}, got)
	assert.Empty(t, DedupFold(nil))
}
