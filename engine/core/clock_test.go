package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockFirstElapsedIsZero(t *testing.T) {
	current := time.Unix(1000, 0)
	clock := NewClockWithSource(func() time.Time { return current })

	assert.Equal(t, 0.0, clock.Elapsed())
}

func TestClockElapsedTracksSource(t *testing.T) {
	current := time.Unix(1000, 0)
	clock := NewClockWithSource(func() time.Time { return current })

	require.Equal(t, 0.0, clock.Elapsed())

	current = current.Add(1500 * time.Millisecond)
	assert.InDelta(t, 1.5, clock.Elapsed(), 1e-9)

	current = current.Add(250 * time.Millisecond)
	assert.InDelta(t, 1.75, clock.Elapsed(), 1e-9)
}

func TestClockElapsedNeverDecreases(t *testing.T) {
	current := time.Unix(1000, 0)
	clock := NewClockWithSource(func() time.Time { return current })

	previous := clock.Elapsed()
	for i := 0; i < 100; i++ {
		current = current.Add(time.Millisecond)
		elapsed := clock.Elapsed()
		require.GreaterOrEqual(t, elapsed, previous)
		previous = elapsed
	}
}

func TestClockResetEstablishesNewZero(t *testing.T) {
	current := time.Unix(1000, 0)
	clock := NewClockWithSource(func() time.Time { return current })

	require.Equal(t, 0.0, clock.Elapsed())
	current = current.Add(5 * time.Second)
	require.InDelta(t, 5.0, clock.Elapsed(), 1e-9)

	clock.Reset()
	assert.Equal(t, 0.0, clock.Elapsed())

	current = current.Add(2 * time.Second)
	assert.InDelta(t, 2.0, clock.Elapsed(), 1e-9)
}

func TestClockRealSourceIsMonotonic(t *testing.T) {
	clock := NewClock()
	first := clock.Elapsed()
	second := clock.Elapsed()
	assert.GreaterOrEqual(t, second, first)
}
