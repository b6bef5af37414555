package chip8

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerSetAndGet(t *testing.T) {
	lim, err := NewLimiter(60, true, nil)
	require.NoError(t, err)
	tm := NewTimer(lim, nil)

	tm.Set(10)
	assert.Equal(t, byte(10), tm.Get())
}

func TestTimerSetFiresOnTransitionTrueFromZero(t *testing.T) {
	lim, err := NewLimiter(60, true, nil)
	require.NoError(t, err)

	var got []bool
	tm := NewTimer(lim, func(on bool) { got = append(got, on) })

	tm.Set(5)
	assert.Equal(t, []bool{true}, got)

	tm.Set(3) // already non-zero, no further transition
	assert.Equal(t, []bool{true}, got)
}

func TestTimerTickDecrementsAndFiresOnTransitionFalseAtZero(t *testing.T) {
	lim, err := NewLimiter(60, true, nil)
	require.NoError(t, err)

	var got []bool
	tm := NewTimer(lim, func(on bool) { got = append(got, on) })
	tm.Set(1)

	tm.tick()
	assert.Equal(t, byte(0), tm.Get())
	assert.Equal(t, []bool{true, false}, got)
}

func TestTimerTickAtZeroStaysZeroAndDoesNotRefire(t *testing.T) {
	lim, err := NewLimiter(60, true, nil)
	require.NoError(t, err)

	calls := 0
	tm := NewTimer(lim, func(bool) { calls++ })

	tm.tick()
	assert.Equal(t, byte(0), tm.Get())
	assert.Equal(t, 0, calls)
}

func TestTimerRunStopsOnContextCancel(t *testing.T) {
	lim, err := NewLimiter(1000, true, nil)
	require.NoError(t, err)
	tm := NewTimer(lim, nil)
	tm.Set(255)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tm.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
