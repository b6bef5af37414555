package chip8

import (
	"sync"
	"sync/atomic"
)

// Framebuffer is the W*H monochrome tiled display, grounded on the
// teacher's gfx array and drawSprite, generalized to arbitrary
// dimensions and both wrap policies per spec.md §4.4.
type Framebuffer struct {
	mu     sync.RWMutex
	pixels []bool
	w, h   int

	renderQueued atomic.Bool
}

// NewFramebuffer builds a cleared w x h framebuffer.
func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{
		pixels: make([]bool, w*h),
		w:      w,
		h:      h,
	}
}

// Dimensions returns the framebuffer's width and height.
func (f *Framebuffer) Dimensions() (int, int) {
	return f.w, f.h
}

// Clear sets every pixel off. Used by the 00E0 CLS opcode.
func (f *Framebuffer) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.pixels {
		f.pixels[i] = false
	}
}

// Snapshot copies the framebuffer under a read lock, for the host
// presenter boundary (spec.md §6: "read-only access to the
// framebuffer under a lock").
func (f *Framebuffer) Snapshot() []bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]bool, len(f.pixels))
	copy(out, f.pixels)
	return out
}

// DrawSprite XORs the n-byte sprite at data into the framebuffer at
// (x, y), applying the wrap/clip policy selected by wrapPixels and
// wrapPositions. wrapPositions controls only the starting corner: when
// false, the starting position is used as given rather than wrapped
// onto the screen; wrapPixels then governs each individual sprite pixel
// as it's plotted, so with wrapPixels also false a starting position at
// or past the edge draws nothing, and with it true the pixels are
// wrapped back onto the screen. It returns whether any set
// sprite bit collided with an already-set pixel.
func (f *Framebuffer) DrawSprite(data []byte, x, y int, wrapPositions, wrapPixels bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	x0, y0 := x, y
	if wrapPositions {
		x0 = x % f.w
		y0 = y % f.h
	}

	collided := false
	for row, b := range data {
		for bit := 0; bit < 8; bit++ {
			if b&(0x80>>uint(bit)) == 0 {
				continue
			}

			px := x0 + bit
			py := y0 + row
			if wrapPixels {
				px %= f.w
				py %= f.h
			} else if px >= f.w || py >= f.h {
				continue
			}

			idx := py*f.w + px
			if f.pixels[idx] {
				collided = true
			}
			f.pixels[idx] = !f.pixels[idx]
		}
	}
	return collided
}

// QueueRender marks the framebuffer as ready to present. Paired
// acquire/release with DequeueRender, per spec.md §5.
func (f *Framebuffer) QueueRender() {
	f.renderQueued.Store(true)
}

// IsRenderQueued reports whether a render is pending.
func (f *Framebuffer) IsRenderQueued() bool {
	return f.renderQueued.Load()
}

// DequeueRender clears the pending flag and reports whether one was
// set, for the host presenter's polling loop.
func (f *Framebuffer) DequeueRender() bool {
	return f.renderQueued.CompareAndSwap(true, false)
}
