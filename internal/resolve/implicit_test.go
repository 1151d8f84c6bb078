package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFocusTrackerWindowSlide(t *testing.T) {
	tracker := newFocusTracker(2)

	tracker.observe([]string{"a"})
	tracker.observe(nil)
	tracker.observe(nil)

	// "a" has slid out of the two-sentence window.
	_, ok := tracker.primary()
	assert.False(t, ok)
	assert.Empty(t, tracker.focusSet())
}

func TestFocusTrackerRecencyWins(t *testing.T) {
	tracker := newFocusTracker(3)

	tracker.observe([]string{"a"})
	tracker.observe([]string{"b"})
	tracker.observe(nil)

	primary, ok := tracker.primary()
	require.True(t, ok)
	assert.Equal(t, "b", primary)
	assert.Equal(t, []string{"a", "b"}, tracker.focusSet())
}

func TestFocusTrackerRementionRefreshes(t *testing.T) {
	tracker := newFocusTracker(4)

	tracker.observe([]string{"a"})
	tracker.observe([]string{"b"})
	tracker.observe([]string{"a"})
	tracker.observe(nil)

	primary, ok := tracker.primary()
	require.True(t, ok)
	assert.Equal(t, "a", primary)
}

func TestFocusTrackerSameSentencePair(t *testing.T) {
	tracker := newFocusTracker(2)

	tracker.observe([]string{"a", "b"})

	set := tracker.focusSet()
	assert.Equal(t, []string{"a", "b"}, set)

	_, ok := tracker.primary()
	assert.True(t, ok)
}
