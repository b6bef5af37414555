package chip8

// Opcode is a single 16-bit big-endian instruction word, grounded on
// original_source's Opcode struct (renamed to a plain named uint16
// per Go idiom, rather than a single-field wrapper struct).
type Opcode uint16

// S returns the high nibble, used for the top-level opcode class.
func (o Opcode) S() uint8 { return uint8(o >> 12) }

// X returns the second nibble, usually a V register index.
func (o Opcode) X() uint8 { return uint8((o >> 8) & 0xF) }

// Y returns the third nibble, usually a V register index.
func (o Opcode) Y() uint8 { return uint8((o >> 4) & 0xF) }

// N returns the low nibble.
func (o Opcode) N() uint8 { return uint8(o & 0xF) }

// KK returns the low byte.
func (o Opcode) KK() uint8 { return uint8(o & 0xFF) }

// NNN returns the low 12 bits, a memory address.
func (o Opcode) NNN() uint16 { return uint16(o) & 0x0FFF }
