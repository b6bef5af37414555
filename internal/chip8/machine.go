package chip8

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/harrowgate/chip8/internal/config"
	"go.uber.org/zap"
)

// Quirks bundles the historically-ambiguous opcode behaviors spec.md
// §4.2 exposes as boolean switches.
type Quirks struct {
	ResetFlagForBitwiseOps      bool
	UseNewShiftInstruction      bool
	UseNewJumpInstruction       bool
	SetFlagForIndexOverflow     bool
	MoveIndexWithReads          bool
	LimitToOneDrawPerFrame      bool
	AllowProgramCounterOverflow bool
	AllowIndexRegisterOverflow  bool
	AllowHeapOverflow           bool
	AllowStackOverflow          bool
	WrapSpritePositions         bool
	WrapSpritePixels            bool
	RenderOnChanges             bool
}

// Machine is the single supervising scope's set of shared state
// containers: created once at startup, shared by reference among all
// five agents, destroyed in reverse order on shutdown. Grounded on
// original_source's main.rs, which builds exactly this set of
// Arc<...> fields before spawning any agent thread.
type Machine struct {
	Memory      *Heap
	Stack       *Stack
	Registers   *Registers
	FB          *Framebuffer
	Delay       *Timer
	Sound       *Timer
	Keys        *InputMirror
	Active      atomic.Bool
	Quirks      Quirks
	FontBase    uint16
	Log      *zap.SugaredLogger
	rng      *rand.Rand

	ctx           context.Context
	cancel        context.CancelFunc
	loggedUnknown map[uint16]bool
}

// Context returns the Machine's cancellation context. It is cancelled
// by Shutdown or Fatal, and is what InputMirror.AwaitNextKeyPress
// selects on to stay responsive to shutdown without polling Active in
// a tight loop.
func (m *Machine) Context() context.Context {
	return m.ctx
}

// Shutdown is the single cancellation path (spec.md §5): it clears
// Active and cancels the context so every agent's next suspension
// point observes it.
func (m *Machine) Shutdown() {
	m.Active.Store(false)
	m.cancel()
}

// NewMachine builds a Machine from cfg. onSoundTransition is wired to
// the tone driver by cmd/run.go; pass nil in tests.
func NewMachine(cfg *config.Config, onSoundTransition func(on bool), log *zap.SugaredLogger) (*Machine, error) {
	quirks := Quirks{
		ResetFlagForBitwiseOps:      cfg.CPU.ResetFlagForBitwiseOps,
		UseNewShiftInstruction:      cfg.CPU.UseNewShiftInstruction,
		UseNewJumpInstruction:       cfg.CPU.UseNewJumpInstruction,
		SetFlagForIndexOverflow:     cfg.CPU.SetFlagForIndexOverflow,
		MoveIndexWithReads:          cfg.CPU.MoveIndexWithReads,
		LimitToOneDrawPerFrame:      cfg.CPU.LimitToOneDrawPerFrame,
		AllowProgramCounterOverflow: cfg.CPU.AllowProgramCounterOverflow,
		AllowIndexRegisterOverflow:  cfg.CPU.AllowIndexRegisterOverflow,
		AllowHeapOverflow:           cfg.RAM.AllowHeapOverflow,
		AllowStackOverflow:          cfg.RAM.AllowStackOverflow,
		WrapSpritePositions:         cfg.GPU.WrapSpritePositions,
		WrapSpritePixels:            cfg.GPU.WrapSpritePixels,
		RenderOnChanges:             cfg.GPU.RenderOccasion == config.RenderOnChanges,
	}

	m := &Machine{
		Memory:        NewHeap(quirks.AllowHeapOverflow),
		Stack:         NewStack(cfg.RAM.StackSize, quirks.AllowStackOverflow),
		Registers:     NewRegisters(),
		FB:            NewFramebuffer(cfg.GPU.HorizontalResolution, cfg.GPU.VerticalResolution),
		Keys:          NewInputMirror(),
		Quirks:        quirks,
		FontBase:      cfg.RAM.FontStartingAddress,
		Log:           log,
		rng:           rand.New(newRandSource(cfg.CPU.UseTrueRandomness, cfg.CPU.FakeRandomnessSeed)),
		loggedUnknown: make(map[uint16]bool),
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.Active.Store(true)

	delayLimiter, err := NewLimiter(cfg.DelayTimer.DecrementRate, true, log)
	if err != nil {
		return nil, fmt.Errorf("chip8: delay timer: %w", err)
	}
	m.Delay = NewTimer(delayLimiter, nil)

	soundLimiter, err := NewLimiter(cfg.SoundTimer.DecrementRate, true, log)
	if err != nil {
		return nil, fmt.Errorf("chip8: sound timer: %w", err)
	}
	m.Sound = NewTimer(soundLimiter, onSoundTransition)

	font := cfg.RAM.FontData
	if len(font) != 80 {
		font = DefaultFontSet[:]
	}
	m.Memory.LoadFont(font, m.FontBase)

	return m, nil
}

// LoadProgram copies program into memory at ProgramStart. Returns an
// error if it doesn't fit (spec.md §6: "too large ... reports an
// error and exits non-zero").
func (m *Machine) LoadProgram(program []byte) error {
	if !m.Memory.LoadProgram(program) {
		return fmt.Errorf("chip8: program of %d bytes does not fit in %d bytes of available memory", len(program), HeapSize-ProgramStart)
	}
	return nil
}

// Fatal logs msg as an unrecoverable runtime condition (spec.md §7,
// kind 3/5) and clears Active so every other agent exits at its next
// poll.
func (m *Machine) Fatal(msg string, args ...interface{}) {
	if m.Log != nil {
		m.Log.Errorw(msg, args...)
	}
	m.Shutdown()
}

// logUnknownOnce logs an unknown-opcode warning exactly once per
// distinct opcode value, per spec.md §7 kind 4.
func (m *Machine) logUnknownOnce(op Opcode) {
	if m.loggedUnknown[uint16(op)] {
		return
	}
	m.loggedUnknown[uint16(op)] = true
	if m.Log != nil {
		m.Log.Warnw("unknown opcode, skipping", "opcode", fmt.Sprintf("0x%04X", uint16(op)))
	}
}
