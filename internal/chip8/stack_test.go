package chip8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackPushPopOrder(t *testing.T) {
	s := NewStack(4, false)
	require.True(t, s.Push(0x200))
	require.True(t, s.Push(0x300))

	v, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, uint16(0x300), v)

	v, ok = s.Pop()
	require.True(t, ok)
	assert.Equal(t, uint16(0x200), v)
}

func TestStackOverflowDisallowedHalts(t *testing.T) {
	s := NewStack(2, false)
	require.True(t, s.Push(1))
	require.True(t, s.Push(2))

	ok := s.Push(3)
	assert.False(t, ok)
	assert.Equal(t, 2, s.Pointer())
}

func TestStackOverflowAllowedOverwritesSlotZero(t *testing.T) {
	s := NewStack(2, true)
	require.True(t, s.Push(1))
	require.True(t, s.Push(2))

	ok := s.Push(3)
	require.True(t, ok)
	assert.Equal(t, 1, s.Pointer())

	v, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, uint16(3), v)
}

func TestStackUnderflowDisallowedFails(t *testing.T) {
	s := NewStack(4, false)
	_, ok := s.Pop()
	assert.False(t, ok)
}

func TestStackUnderflowAllowedReturnsLastSlot(t *testing.T) {
	s := NewStack(4, true)
	v, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, uint16(0), v)
	assert.Equal(t, 3, s.Pointer())
}
