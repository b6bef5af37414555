package chip8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func zeroGlyph() []byte {
	return []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}
}

func TestDrawSpriteSetsPixelsAndReportsNoCollisionFirstDraw(t *testing.T) {
	fb := NewFramebuffer(64, 32)
	collided := fb.DrawSprite(zeroGlyph(), 0, 0, true, false)
	assert.False(t, collided)

	snap := fb.Snapshot()
	assert.True(t, snap[0])  // bit 7 of 0xF0
	assert.False(t, snap[4]) // bit 3 of 0xF0 is 0
}

func TestDrawSpriteTwiceCollidesAndClears(t *testing.T) {
	fb := NewFramebuffer(64, 32)
	fb.DrawSprite(zeroGlyph(), 0, 0, true, false)
	collided := fb.DrawSprite(zeroGlyph(), 0, 0, true, false)

	assert.True(t, collided)
	for _, p := range fb.Snapshot() {
		assert.False(t, p)
	}
}

func TestDrawSpriteStartingPositionWrapsWhenEnabled(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	collided := fb.DrawSprite([]byte{0x80}, 16, 16, true, false) // 16 mod 8 == 0
	assert.False(t, collided)
	assert.True(t, fb.Snapshot()[0])
}

func TestDrawSpriteStartingPositionClipsWhenDisabled(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	// With position wrap off, a starting corner already past the edge
	// draws nothing at all rather than wrapping onto it.
	collided := fb.DrawSprite([]byte{0x80}, 16, 16, false, false)
	assert.False(t, collided)
	for _, p := range fb.Snapshot() {
		assert.False(t, p)
	}
}

func TestDrawSpriteClipsWhenWrapPixelsDisabled(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	// Drawing at x=6 with an 8-bit-wide row: bits 2-7 land off-screen and
	// are discarded rather than wrapping to column 0.
	fb.DrawSprite([]byte{0xFF}, 6, 0, true, false)
	snap := fb.Snapshot()
	assert.True(t, snap[6])
	assert.True(t, snap[7])
	assert.False(t, snap[0])
}

func TestDrawSpriteWrapsPixelsWhenEnabled(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.DrawSprite([]byte{0xFF}, 6, 0, true, true)
	snap := fb.Snapshot()
	assert.True(t, snap[6])
	assert.True(t, snap[7])
	assert.True(t, snap[0]) // wrapped around from column 8
	assert.True(t, snap[5]) // wrapped from column 13 (6+7=13 mod 8=5)
}

func TestClearResetsAllPixels(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.DrawSprite(zeroGlyph(), 0, 0, true, false)
	fb.Clear()
	for _, p := range fb.Snapshot() {
		assert.False(t, p)
	}
}

func TestRenderQueueDequeueIsOneShot(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	assert.False(t, fb.IsRenderQueued())
	fb.QueueRender()
	assert.True(t, fb.IsRenderQueued())
	assert.True(t, fb.DequeueRender())
	assert.False(t, fb.IsRenderQueued())
	assert.False(t, fb.DequeueRender())
}
