package chip8

// Each opX function implements one opcode per spec.md §4.2. Grounded
// on the teacher's instructions.go (_0x00E0, _0x8xy4, ...), renamed to
// documented mnemonics and corrected against spec.md/original_source's
// instructions.rs where the teacher's version diverges from the spec
// (notably SHR/SHL's shift-source quirk, which the teacher always
// sources from Vy, and 8xy4/8xy5/8xy7's carry semantics, expressed
// here as 8-bit wrapping arithmetic with an explicit overflow check
// rather than the teacher's manual pre-comparisons).
//
// PC already sits one instruction past the opcode under execution by
// the time any of these run: cpu.go's fetch() advances it by 2 before
// decode/execute. So a normal instruction does nothing further to PC;
// a taken skip adds one more 2-byte step; jumps/calls/returns set PC
// absolutely and ignore the fetch's advance entirely.
//
// Every function returns whether it intentionally blocked the CPU
// thread; only opLDVxK, and opDRW under the one-draw-per-frame quirk,
// ever return true.

func advancePC(m *Machine, n uint16) {
	m.Registers.PC = (m.Registers.PC + n) % HeapSize
}

func opCLS(m *Machine, op Opcode) bool {
	m.FB.Clear()
	if m.Quirks.RenderOnChanges {
		m.FB.QueueRender()
	}
	return false
}

func opRET(m *Machine, op Opcode) bool {
	addr, ok := m.Stack.Pop()
	if !ok {
		m.Fatal("stack underflow on RET")
		return false
	}
	m.Registers.Lock()
	m.Registers.PC = addr
	m.Registers.Unlock()
	return false
}

func opJP(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	m.Registers.PC = op.NNN()
	m.Registers.Unlock()
	return false
}

func opCALL(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	pc := m.Registers.PC
	m.Registers.Unlock()

	if !m.Stack.Push(pc) {
		m.Fatal("stack overflow on CALL")
		return false
	}

	m.Registers.Lock()
	m.Registers.PC = op.NNN()
	m.Registers.Unlock()
	return false
}

// opSEVxByte skips the next instruction (an extra +2, on top of the
// fetch's own +2) when Vx == kk.
func opSEVxByte(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	if m.Registers.V[op.X()] == op.KK() {
		advancePC(m, 2)
	}
	return false
}

func opSNEVxByte(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	if m.Registers.V[op.X()] != op.KK() {
		advancePC(m, 2)
	}
	return false
}

func opSEVxVy(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	if m.Registers.V[op.X()] == m.Registers.V[op.Y()] {
		advancePC(m, 2)
	}
	return false
}

func opLDVxByte(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	m.Registers.V[op.X()] = op.KK()
	return false
}

func opADDVxByte(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	m.Registers.V[op.X()] += op.KK() // 8-bit wrapping add, no flag
	return false
}

func opLDVxVy(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	m.Registers.V[op.X()] = m.Registers.V[op.Y()]
	return false
}

// bitwiseEpilogue applies the optional VF-reset quirk shared by
// OR/AND/XOR. Must be called with Registers held.
func bitwiseEpilogue(m *Machine) {
	if m.Quirks.ResetFlagForBitwiseOps {
		m.Registers.V[VF] = 0
	}
}

func opORVxVy(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	m.Registers.V[op.X()] |= m.Registers.V[op.Y()]
	bitwiseEpilogue(m)
	return false
}

func opANDVxVy(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	m.Registers.V[op.X()] &= m.Registers.V[op.Y()]
	bitwiseEpilogue(m)
	return false
}

func opXORVxVy(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	m.Registers.V[op.X()] ^= m.Registers.V[op.Y()]
	bitwiseEpilogue(m)
	return false
}

// opADDVxVy writes Vx before VF, so that when the destination equals
// the flag register (x==0xF), the carry is what's left behind. This
// resolves spec.md §9's open question per scenario 2.
func opADDVxVy(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	x, y := op.X(), op.Y()
	sum := uint16(m.Registers.V[x]) + uint16(m.Registers.V[y])
	m.Registers.V[x] = byte(sum)
	carry := byte(0)
	if sum > 0xFF {
		carry = 1
	}
	m.Registers.V[VF] = carry
	return false
}

func opSUBVxVy(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	x, y := op.X(), op.Y()
	vx, vy := m.Registers.V[x], m.Registers.V[y]
	m.Registers.V[x] = vx - vy
	flag := byte(0)
	if vx >= vy {
		flag = 1
	}
	m.Registers.V[VF] = flag
	return false
}

func opSHRVx(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	x, y := op.X(), op.Y()
	source := m.Registers.V[y]
	if m.Quirks.UseNewShiftInstruction {
		source = m.Registers.V[x]
	}
	m.Registers.V[x] = source >> 1
	m.Registers.V[VF] = source & 0x01
	return false
}

func opSUBNVxVy(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	x, y := op.X(), op.Y()
	vx, vy := m.Registers.V[x], m.Registers.V[y]
	m.Registers.V[x] = vy - vx
	flag := byte(0)
	if vy >= vx {
		flag = 1
	}
	m.Registers.V[VF] = flag
	return false
}

func opSHLVx(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	x, y := op.X(), op.Y()
	source := m.Registers.V[y]
	if m.Quirks.UseNewShiftInstruction {
		source = m.Registers.V[x]
	}
	m.Registers.V[x] = source << 1
	m.Registers.V[VF] = (source & 0x80) >> 7
	return false
}

func opSNEVxVy(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	if m.Registers.V[op.X()] != m.Registers.V[op.Y()] {
		advancePC(m, 2)
	}
	return false
}

func opLDIAddr(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	m.Registers.I = op.NNN()
	return false
}

func opJPV0Addr(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	if m.Quirks.UseNewJumpInstruction {
		m.Registers.PC = op.NNN() + uint16(m.Registers.V[op.X()])
	} else {
		m.Registers.PC = op.NNN() + uint16(m.Registers.V[0])
	}
	return false
}

func opRNDVxByte(m *Machine, op Opcode) bool {
	v := byte(m.rng.Intn(256))
	m.Registers.Lock()
	defer m.Registers.Unlock()
	m.Registers.V[op.X()] = v & op.KK()
	return false
}

// opDRW draws an N-byte sprite at (Vx, Vy). When the one-draw-per-
// frame quirk is active and a render is already queued, it reports
// blocked=true so the limiter doesn't immediately fire a catch-up
// burst once the presenter consumes the pending frame (spec.md §4.4).
// The render-queued flag itself is only set under render-on-changes;
// under render-on-frequency the rasterizer agent owns queuing, per
// spec.md §4.4, matching opCLS's same guard.
func opDRW(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	x := int(m.Registers.V[op.X()])
	y := int(m.Registers.V[op.Y()])
	i := m.Registers.I
	n := int(op.N())
	m.Registers.Unlock()

	sprite, ok := m.Memory.ReadBytes(i, n)
	if !ok {
		m.Fatal("heap overflow reading sprite data", "i", i, "n", n)
		return false
	}

	blockedOnQueue := m.Quirks.LimitToOneDrawPerFrame && m.FB.IsRenderQueued()

	collided := m.FB.DrawSprite(sprite, x, y, m.Quirks.WrapSpritePositions, m.Quirks.WrapSpritePixels)

	m.Registers.Lock()
	if collided {
		m.Registers.V[VF] = 1
	} else {
		m.Registers.V[VF] = 0
	}
	m.Registers.Unlock()

	if m.Quirks.RenderOnChanges {
		m.FB.QueueRender()
	}

	return blockedOnQueue
}

func opSKPVx(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	key := m.Registers.V[op.X()] & 0xF
	m.Registers.Unlock()

	down := m.Keys.IsDown(key)

	m.Registers.Lock()
	defer m.Registers.Unlock()
	if down {
		advancePC(m, 2)
	}
	return false
}

func opSKNPVx(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	key := m.Registers.V[op.X()] & 0xF
	m.Registers.Unlock()

	down := m.Keys.IsDown(key)

	m.Registers.Lock()
	defer m.Registers.Unlock()
	if !down {
		advancePC(m, 2)
	}
	return false
}

func opLDVxDT(m *Machine, op Opcode) bool {
	v := m.Delay.Get()
	m.Registers.Lock()
	defer m.Registers.Unlock()
	m.Registers.V[op.X()] = v
	return false
}

// opLDVxK blocks until a full press-then-release cycle completes,
// then stores the released key's index in Vx. This is the only
// opcode that unconditionally reports blocked=true (spec.md §4.5).
func opLDVxK(m *Machine, op Opcode) bool {
	key, ok := m.Keys.AwaitNextKeyPress(m.Context())
	if !ok {
		return true
	}
	m.Registers.Lock()
	m.Registers.V[op.X()] = key
	m.Registers.Unlock()
	return true
}

func opLDDTVx(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	v := m.Registers.V[op.X()]
	m.Registers.Unlock()

	m.Delay.Set(v)
	return false
}

func opLDSTVx(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	v := m.Registers.V[op.X()]
	m.Registers.Unlock()

	m.Sound.Set(v)
	return false
}

func opADDIVx(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	result := uint32(m.Registers.I) + uint32(m.Registers.V[op.X()])

	if m.Quirks.SetFlagForIndexOverflow && result > 0xFFF {
		m.Registers.V[VF] = 1
	}

	if result > 0xFFFF && !m.Quirks.AllowIndexRegisterOverflow {
		m.Registers.Unlock()
		m.Fatal("index register overflowed", "result", result)
		return false
	}

	m.Registers.I = uint16(result)
	m.Registers.Unlock()
	return false
}

func opLDFVx(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	defer m.Registers.Unlock()
	digit := m.Registers.V[op.X()] & 0xF
	m.Registers.I = m.FontBase + uint16(digit)*5
	return false
}

func opLDBVx(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	v := m.Registers.V[op.X()]
	i := m.Registers.I
	m.Registers.Unlock()

	bcd := []byte{v / 100, (v / 10) % 10, v % 10}
	if !m.Memory.WriteBytes(bcd, i) {
		m.Fatal("heap overflow writing BCD", "i", i)
		return false
	}
	return false
}

// opLDIVx stores V0..Vx to memory starting at I. When the
// move-I-with-reads quirk is active, I += x afterward (not x+1),
// matching the historical behavior spec.md §9 pins down for x==0.
func opLDIVx(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	x := op.X()
	i := m.Registers.I
	buf := make([]byte, int(x)+1)
	copy(buf, m.Registers.V[:int(x)+1])
	m.Registers.Unlock()

	if !m.Memory.WriteBytes(buf, i) {
		m.Fatal("heap overflow on LD [I],Vx", "i", i)
		return false
	}

	m.Registers.Lock()
	if m.Quirks.MoveIndexWithReads {
		m.Registers.I += uint16(x)
	}
	m.Registers.Unlock()
	return false
}

// opLDVxI fills V0..Vx from memory starting at I, with the same
// move-I-with-reads quirk as opLDIVx.
func opLDVxI(m *Machine, op Opcode) bool {
	m.Registers.Lock()
	x := op.X()
	i := m.Registers.I
	m.Registers.Unlock()

	buf, ok := m.Memory.ReadBytes(i, int(x)+1)
	if !ok {
		m.Fatal("heap overflow on LD Vx,[I]", "i", i)
		return false
	}

	m.Registers.Lock()
	copy(m.Registers.V[:int(x)+1], buf)
	if m.Quirks.MoveIndexWithReads {
		m.Registers.I += uint16(x)
	}
	m.Registers.Unlock()
	return false
}
