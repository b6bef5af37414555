package chip8

import "sync"

// HeapSize is the size of CHIP-8 addressable memory, 4 KiB.
const HeapSize = 0x1000

// ProgramStart is the conventional load address for program images.
const ProgramStart = 0x200

// Heap is the 4096-byte addressable memory, grounded on
// original_source's RAM (mutex-guarded byte array) generalized with
// the wrap-around read/write policy spec.md §4.3 requires.
type Heap struct {
	mu        sync.Mutex
	bytes     [HeapSize]byte
	allowWrap bool
}

// NewHeap builds an empty heap. allowWrap controls whether
// reads/writes that cross the 0xFFF/0x000 boundary wrap instead of
// failing.
func NewHeap(allowWrap bool) *Heap {
	return &Heap{allowWrap: allowWrap}
}

// LoadFont copies font into the heap starting at base. Called once at
// init and never touched again.
func (h *Heap) LoadFont(font []byte, base uint16) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, b := range font {
		h.bytes[(int(base)+i)%HeapSize] = b
	}
}

// LoadProgram copies program into the heap starting at ProgramStart.
// Returns false if the program doesn't fit.
func (h *Heap) LoadProgram(program []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ProgramStart+len(program) > HeapSize {
		return false
	}
	copy(h.bytes[ProgramStart:], program)
	return true
}

// ReadBytes reads n bytes starting at addr. If the access would cross
// the top of the heap, it either wraps (suffix starts at 0x000) when
// allowWrap is set, or fails.
func (h *Heap) ReadBytes(addr uint16, n int) ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]byte, n)
	if int(addr)+n <= HeapSize {
		copy(out, h.bytes[addr:int(addr)+n])
		return out, true
	}
	if !h.allowWrap {
		return nil, false
	}
	head := HeapSize - int(addr)
	copy(out, h.bytes[addr:])
	copy(out[head:], h.bytes[:n-head])
	return out, true
}

// WriteBytes writes data starting at addr, with the same wrap policy
// as ReadBytes.
func (h *Heap) WriteBytes(data []byte, addr uint16) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(data)
	if int(addr)+n <= HeapSize {
		copy(h.bytes[addr:], data)
		return true
	}
	if !h.allowWrap {
		return false
	}
	head := HeapSize - int(addr)
	copy(h.bytes[addr:], data[:head])
	copy(h.bytes[:n-head], data[head:])
	return true
}

// ReadByte reads a single byte. Callers ensure addr is in range.
func (h *Heap) ReadByte(addr uint16) byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bytes[addr%HeapSize]
}

// WriteByte writes a single byte. Callers ensure addr is in range.
func (h *Heap) WriteByte(addr uint16, v byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bytes[addr%HeapSize] = v
}
