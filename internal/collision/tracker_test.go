package collision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.Equal(t, 0, tracker.Collisions())
	require.Empty(t, tracker.Names())
}

func TestTracker_Intern(t *testing.T) {
	tracker := NewTracker()

	id, fresh := tracker.Intern("Camera0")
	require.True(t, fresh)
	require.Equal(t, 0, id)

	id, fresh = tracker.Intern("Light0")
	require.True(t, fresh)
	require.Equal(t, 1, id)

	id, fresh = tracker.Intern("Camera0")
	require.False(t, fresh, "repeated names share one id")
	require.Equal(t, 0, id)

	require.Equal(t, []string{"Camera0", "Light0"}, tracker.Names())
	require.Equal(t, 2, tracker.Count())

	id, ok := tracker.Lookup("Light0")
	require.True(t, ok)
	require.Equal(t, 1, id)

	_, ok = tracker.Lookup("Fog0")
	require.False(t, ok)
}

func TestTracker_CollidingBucket(t *testing.T) {
	tracker := NewTracker()

	// Force two names into one bucket to exercise the collision path.
	tracker.byHash[42] = []entry{{name: "a", id: 0}}
	tracker.names = append(tracker.names, "a")
	tracker.byHash[42] = append(tracker.byHash[42], entry{name: "b", id: 1})
	tracker.names = append(tracker.names, "b")
	tracker.collisions++

	require.Equal(t, 1, tracker.Collisions())
	require.Equal(t, 2, tracker.Count())
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	tracker.Intern("x")
	tracker.Intern("y")

	tracker.Reset()
	require.Equal(t, 0, tracker.Count())

	id, fresh := tracker.Intern("y")
	require.True(t, fresh)
	require.Equal(t, 0, id)
}
