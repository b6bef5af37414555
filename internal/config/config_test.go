package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const baseConfig = `
preset = "custom"

[cpu]
instructions_per_second = 700.0
reset_flag_for_bitwise_operations = true
use_new_shift_instruction = false
use_new_jump_instruction = false
set_flag_for_index_overflow = false
move_index_with_reads = true
limit_to_one_draw_per_frame = true
allow_program_counter_overflow = false
use_true_randomness = false
fake_randomness_seed = 42
allow_index_register_overflow = false

[gpu]
pixel_color_when_active = 0xFFFFFF
pixel_color_when_inactive = 0x000000
screen_border_color = 0x202020
horizontal_resolution = 64
vertical_resolution = 32
wrap_sprite_positions = true
wrap_sprite_pixels = false
render_occasion = "frequency"
render_frequency = 60.0

[input]
key_bindings = ["x","1","2","3","q","w","e","a","s","d","z","c","4","r","f","v"]

[ram]
stack_size = 16
allow_stack_overflow = false
allow_heap_overflow = false
font_starting_address = 0x000
font_data = [%s]

[delay_timer]
delay_timer_decrement_rate = 60.0

[sound_timer]
sound_timer_decrement_rate = 60.0
tone_frequency = 440.0
tone_waveform = "square"
`

func fontDataLiteral() string {
	out := ""
	for i := 0; i < 80; i++ {
		if i > 0 {
			out += ","
		}
		out += "0"
	}
	return out
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, sprintfConfig(baseConfig, fontDataLiteral()))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, PresetCustom, cfg.Preset)
	assert.Equal(t, 700.0, cfg.CPU.InstructionsPerSecond)
	assert.Equal(t, 64, cfg.GPU.HorizontalResolution)
	assert.Equal(t, WaveSquare, cfg.SoundTimer.ToneWaveform)
}

func TestLoadCHIP8PresetOverridesCustomValues(t *testing.T) {
	body := sprintfConfig(baseConfig, fontDataLiteral())
	body = replaceFirst(body, `preset = "custom"`, `preset = "chip8"`)
	// Custom values that differ from the preset, so the override is observable.
	body = replaceFirst(body, "use_new_shift_instruction = false", "use_new_shift_instruction = true")
	body = replaceFirst(body, "move_index_with_reads = true", "move_index_with_reads = false")
	body = replaceFirst(body, "horizontal_resolution = 64", "horizontal_resolution = 128")
	body = replaceFirst(body, "vertical_resolution = 32", "vertical_resolution = 64")
	body = replaceFirst(body, `render_occasion = "frequency"`, `render_occasion = "changes"`)
	body = replaceFirst(body, "stack_size = 16", "stack_size = 12")
	body = replaceFirst(body, "delay_timer_decrement_rate = 60.0", "delay_timer_decrement_rate = 30.0")
	path := writeConfig(t, body)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.CPU.UseNewShiftInstruction)
	assert.True(t, cfg.CPU.MoveIndexWithReads)
	assert.Equal(t, 64, cfg.GPU.HorizontalResolution)
	assert.Equal(t, 32, cfg.GPU.VerticalResolution)
	assert.Equal(t, RenderOnFrequency, cfg.GPU.RenderOccasion)
	assert.Equal(t, 16, cfg.RAM.StackSize)
	assert.Equal(t, 60.0, cfg.DelayTimer.DecrementRate)
}

func TestLoadRejectsNonPositiveInstructionRate(t *testing.T) {
	body := sprintfConfig(baseConfig, fontDataLiteral())
	body = replaceFirst(body, "instructions_per_second = 700.0", "instructions_per_second = 0")
	path := writeConfig(t, body)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsWrongFontDataLength(t *testing.T) {
	path := writeConfig(t, sprintfConfig(baseConfig, "0,0,0"))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownPreset(t *testing.T) {
	body := sprintfConfig(baseConfig, fontDataLiteral())
	body = replaceFirst(body, `preset = "custom"`, `preset = "bogus"`)
	path := writeConfig(t, body)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func sprintfConfig(tmpl, fontData string) string {
	return strings.Replace(tmpl, "%s", fontData, 1)
}

func replaceFirst(s, old, new string) string {
	return strings.Replace(s, old, new, 1)
}
