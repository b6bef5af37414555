// Package config loads and validates chip8's config.toml.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Preset selects whether the loaded file is post-processed with the
// historical CHIP-8 defaults.
type Preset string

// Supported presets.
const (
	PresetCHIP8  Preset = "chip8"
	PresetCustom Preset = "custom"
)

// RenderOccasion controls when the rasterizer marks a frame as ready to
// present.
type RenderOccasion string

// Supported render occasions.
const (
	RenderOnChanges   RenderOccasion = "changes"
	RenderOnFrequency RenderOccasion = "frequency"
)

// ToneWaveform selects the sound timer's tone synthesizer.
type ToneWaveform string

// Supported waveforms.
const (
	WaveSine     ToneWaveform = "sine"
	WaveSquare   ToneWaveform = "square"
	WaveTriangle ToneWaveform = "triangle"
	WaveSawtooth ToneWaveform = "sawtooth"
)

// Config is the fully decoded, validated config.toml tree.
type Config struct {
	Preset     Preset           `toml:"preset"`
	CPU        CPUConfig        `toml:"cpu"`
	GPU        GPUConfig        `toml:"gpu"`
	Input      InputConfig      `toml:"input"`
	RAM        RAMConfig        `toml:"ram"`
	DelayTimer DelayTimerConfig `toml:"delay_timer"`
	SoundTimer SoundTimerConfig `toml:"sound_timer"`
}

// CPUConfig configures the interpreter's pace and opcode quirks.
type CPUConfig struct {
	InstructionsPerSecond       float64 `toml:"instructions_per_second"`
	ResetFlagForBitwiseOps      bool    `toml:"reset_flag_for_bitwise_operations"`
	UseNewShiftInstruction      bool    `toml:"use_new_shift_instruction"`
	UseNewJumpInstruction       bool    `toml:"use_new_jump_instruction"`
	SetFlagForIndexOverflow     bool    `toml:"set_flag_for_index_overflow"`
	MoveIndexWithReads          bool    `toml:"move_index_with_reads"`
	LimitToOneDrawPerFrame      bool    `toml:"limit_to_one_draw_per_frame"`
	AllowProgramCounterOverflow bool    `toml:"allow_program_counter_overflow"`
	UseTrueRandomness           bool    `toml:"use_true_randomness"`
	FakeRandomnessSeed          uint64  `toml:"fake_randomness_seed"`
	AllowIndexRegisterOverflow  bool    `toml:"allow_index_register_overflow"`
}

// GPUConfig configures the framebuffer's resolution, colors, and
// rasterizer pacing.
type GPUConfig struct {
	PixelColorWhenActive   uint32         `toml:"pixel_color_when_active"`
	PixelColorWhenInactive uint32         `toml:"pixel_color_when_inactive"`
	ScreenBorderColor      uint32         `toml:"screen_border_color"`
	HorizontalResolution   int            `toml:"horizontal_resolution"`
	VerticalResolution     int            `toml:"vertical_resolution"`
	WrapSpritePositions    bool           `toml:"wrap_sprite_positions"`
	WrapSpritePixels       bool           `toml:"wrap_sprite_pixels"`
	RenderOccasion         RenderOccasion `toml:"render_occasion"`
	RenderFrequency        float64        `toml:"render_frequency"`
}

// InputConfig maps the 16-key hex keypad to host key identifiers.
type InputConfig struct {
	KeyBindings [16]string `toml:"key_bindings"`
}

// RAMConfig configures the heap/stack.
type RAMConfig struct {
	StackSize          int    `toml:"stack_size"`
	AllowStackOverflow bool   `toml:"allow_stack_overflow"`
	AllowHeapOverflow  bool   `toml:"allow_heap_overflow"`
	FontStartingAddress uint16 `toml:"font_starting_address"`
	FontData           []byte `toml:"font_data"`
}

// DelayTimerConfig configures the delay timer's pace.
type DelayTimerConfig struct {
	DecrementRate float64 `toml:"delay_timer_decrement_rate"`
}

// SoundTimerConfig configures the sound timer's pace and tone.
type SoundTimerConfig struct {
	DecrementRate float64      `toml:"sound_timer_decrement_rate"`
	ToneFrequency float32      `toml:"tone_frequency"`
	ToneWaveform  ToneWaveform `toml:"tone_waveform"`
}

// maxFontStartingAddress is the highest font_base that still leaves
// room for the 80-byte glyph table below the top of the 4 KiB heap
// (0xFB0 + 80 == 0x1000).
const maxFontStartingAddress = 0xFB0

// Load reads and decodes path, applies the CHIP8 preset if selected,
// then validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: could not read %s: %w", path, err)
	}

	var cfg Config
	if _, err := toml.Decode(string(raw), &cfg); err != nil {
		return nil, fmt.Errorf("config: could not parse %s: %w", path, err)
	}

	switch cfg.Preset {
	case PresetCHIP8:
		applyCHIP8Preset(&cfg)
	case PresetCustom:
	default:
		return nil, fmt.Errorf("config: unknown preset %q", cfg.Preset)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyCHIP8Preset overrides the loaded config with the historical
// CHIP-8 defaults, as described in spec.md §6.
func applyCHIP8Preset(cfg *Config) {
	cfg.CPU.UseNewShiftInstruction = false
	cfg.CPU.UseNewJumpInstruction = false
	cfg.CPU.SetFlagForIndexOverflow = false
	cfg.CPU.MoveIndexWithReads = true
	cfg.CPU.LimitToOneDrawPerFrame = true
	cfg.CPU.ResetFlagForBitwiseOps = true

	cfg.GPU.HorizontalResolution = 64
	cfg.GPU.VerticalResolution = 32
	cfg.GPU.WrapSpritePositions = true
	cfg.GPU.WrapSpritePixels = false
	cfg.GPU.RenderOccasion = RenderOnFrequency
	cfg.GPU.RenderFrequency = 60

	cfg.RAM.StackSize = 16

	cfg.DelayTimer.DecrementRate = 60
	cfg.SoundTimer.DecrementRate = 60
}

func (c *Config) validate() error {
	if c.CPU.InstructionsPerSecond <= 0 {
		return fmt.Errorf("config: cpu.instructions_per_second must be > 0")
	}
	if c.GPU.HorizontalResolution <= 0 || c.GPU.VerticalResolution <= 0 {
		return fmt.Errorf("config: gpu resolution must be positive")
	}
	switch c.GPU.RenderOccasion {
	case RenderOnChanges:
	case RenderOnFrequency:
		if c.GPU.RenderFrequency <= 0 {
			return fmt.Errorf("config: gpu.render_frequency must be > 0 when render_occasion is frequency")
		}
	default:
		return fmt.Errorf("config: unknown gpu.render_occasion %q", c.GPU.RenderOccasion)
	}
	if c.RAM.StackSize <= 0 {
		return fmt.Errorf("config: ram.stack_size must be > 0")
	}
	if c.RAM.FontStartingAddress > maxFontStartingAddress {
		return fmt.Errorf("config: ram.font_starting_address must be <= 0x%X", maxFontStartingAddress)
	}
	if len(c.RAM.FontData) != 80 {
		return fmt.Errorf("config: ram.font_data must be exactly 80 bytes, got %d", len(c.RAM.FontData))
	}
	if c.DelayTimer.DecrementRate <= 0 {
		return fmt.Errorf("config: delay_timer.delay_timer_decrement_rate must be > 0")
	}
	if c.SoundTimer.DecrementRate <= 0 {
		return fmt.Errorf("config: sound_timer.sound_timer_decrement_rate must be > 0")
	}
	if c.SoundTimer.ToneFrequency <= 0 {
		return fmt.Errorf("config: sound_timer.tone_frequency must be > 0")
	}
	switch c.SoundTimer.ToneWaveform {
	case WaveSine, WaveSquare, WaveTriangle, WaveSawtooth:
	default:
		return fmt.Errorf("config: unknown sound_timer.tone_waveform %q", c.SoundTimer.ToneWaveform)
	}
	for i, k := range c.Input.KeyBindings {
		if k == "" {
			return fmt.Errorf("config: input.key_bindings[%d] must not be empty", i)
		}
	}
	return nil
}
