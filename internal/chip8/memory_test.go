package chip8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeapReadWriteByte(t *testing.T) {
	h := NewHeap(false)
	h.WriteByte(0x300, 0xAB)
	assert.Equal(t, byte(0xAB), h.ReadByte(0x300))
}

func TestHeapReadBytesNoWrapWithinBounds(t *testing.T) {
	h := NewHeap(false)
	h.WriteBytes([]byte{1, 2, 3}, 0x200)

	got, ok := h.ReadBytes(0x200, 3)
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestHeapReadBytesDisallowedWrapFails(t *testing.T) {
	h := NewHeap(false)
	_, ok := h.ReadBytes(HeapSize-2, 4)
	assert.False(t, ok)
}

func TestHeapReadBytesAllowedWrapReturnsWrappedSlice(t *testing.T) {
	h := NewHeap(true)
	h.WriteByte(HeapSize-2, 0xAA)
	h.WriteByte(HeapSize-1, 0xBB)
	h.WriteByte(0, 0xCC)
	h.WriteByte(1, 0xDD)

	got, ok := h.ReadBytes(HeapSize-2, 4)
	assert.True(t, ok)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, got)
}

func TestHeapLoadProgramTooLargeFails(t *testing.T) {
	h := NewHeap(false)
	ok := h.LoadProgram(make([]byte, HeapSize))
	assert.False(t, ok)
}

func TestHeapLoadProgramFitsAtProgramStart(t *testing.T) {
	h := NewHeap(false)
	ok := h.LoadProgram([]byte{0x12, 0x00})
	assert.True(t, ok)
	assert.Equal(t, byte(0x12), h.ReadByte(ProgramStart))
	assert.Equal(t, byte(0x00), h.ReadByte(ProgramStart+1))
}

func TestHeapLoadFontCopiesAtBase(t *testing.T) {
	h := NewHeap(false)
	h.LoadFont(DefaultFontSet[:], 0x50)
	for i, b := range DefaultFontSet {
		assert.Equal(t, b, h.ReadByte(uint16(0x50+i)))
	}
}
