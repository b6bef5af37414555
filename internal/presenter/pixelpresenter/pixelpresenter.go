// Package pixelpresenter implements presenter.Presenter on top of
// faiface/pixel, grounded on the teacher's internal/pixel package
// (window config, KeyMap, DrawGraphics), generalized from its
// hardcoded 64x32-at-1024x768 ratio to whatever resolution and colors
// cfg.GPU names, scaled by the largest integer factor that fits the
// default window bounds.
package pixelpresenter

import (
	"fmt"
	"image/color"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"github.com/harrowgate/chip8/internal/chip8"
	"github.com/harrowgate/chip8/internal/config"
)

// defaultWindowWidth and defaultWindowHeight bound the host window;
// the actual pixel scale is the largest integer that fits the
// configured CHIP-8 resolution inside them.
const (
	defaultWindowWidth  = 1024
	defaultWindowHeight = 768
)

// Presenter drives a pixelgl window sized to cfg.GPU's resolution and
// colors.
type Presenter struct {
	win *pixelgl.Window

	keyMap  map[byte]pixelgl.Button
	keyDown [16]bool

	scale                float64
	active, inactive, border pixel.RGBA
}

// New opens a pixelgl window sized and colored per cfg.GPU, with a
// hex-keypad-to-host-key mapping built from cfg.Input.KeyBindings.
func New(cfg *config.Config) (*Presenter, error) {
	w, h := cfg.GPU.HorizontalResolution, cfg.GPU.VerticalResolution
	scale := scaleFactor(w, h)

	winCfg := pixelgl.WindowConfig{
		Title:  "chip8",
		Bounds: pixel.R(0, 0, float64(w)*scale, float64(h)*scale),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(winCfg)
	if err != nil {
		return nil, fmt.Errorf("pixelpresenter: error creating window: %w", err)
	}

	keyMap, err := buildKeyMap(cfg.Input.KeyBindings)
	if err != nil {
		return nil, err
	}

	return &Presenter{
		win:      win,
		keyMap:   keyMap,
		scale:    scale,
		active:   colorFromUint32(cfg.GPU.PixelColorWhenActive),
		inactive: colorFromUint32(cfg.GPU.PixelColorWhenInactive),
		border:   colorFromUint32(cfg.GPU.ScreenBorderColor),
	}, nil
}

// scaleFactor returns the largest integer that fits a w x h grid
// inside the default window bounds, at least 1.
func scaleFactor(w, h int) float64 {
	sx := defaultWindowWidth / w
	sy := defaultWindowHeight / h
	scale := sx
	if sy < scale {
		scale = sy
	}
	if scale < 1 {
		scale = 1
	}
	return float64(scale)
}

// Present blits a framebuffer snapshot to the window, flipping row
// order since CHIP-8's (0,0) is top-left but pixel's is bottom-left,
// matching the teacher's DrawGraphics indexing.
func (p *Presenter) Present(fb *chip8.Framebuffer) {
	w, h := fb.Dimensions()
	snap := fb.Snapshot()

	p.win.Clear(colorToStd(p.border))
	draw := imdraw.New(nil)

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			draw.Color = p.active
			if !snap[(h-1-row)*w+col] {
				draw.Color = p.inactive
			}
			x0, y0 := float64(col)*p.scale, float64(row)*p.scale
			draw.Push(pixel.V(x0, y0))
			draw.Push(pixel.V(x0+p.scale, y0+p.scale))
			draw.Rectangle(0)
		}
	}

	draw.Draw(p.win)
	p.win.Update()
}

// PollEvents reports every mapped hex key that transitioned this
// frame. Must be called once per frame even when no draw happened, so
// pixelgl's input state advances (teacher's UpdateInput call in the
// non-draw branch).
func (p *Presenter) PollEvents() []chip8.KeyEvent {
	if p.win.Closed() {
		return nil
	}

	var events []chip8.KeyEvent
	for hex, btn := range p.keyMap {
		switch {
		case p.win.JustPressed(btn):
			p.keyDown[hex] = true
			events = append(events, chip8.KeyEvent{Key: hex, Pressed: true})
		case p.win.JustReleased(btn):
			p.keyDown[hex] = false
			events = append(events, chip8.KeyEvent{Key: hex, Pressed: false})
		}
	}

	if len(events) == 0 {
		p.win.UpdateInput()
	}
	return events
}

// CloseRequested reports whether the user closed the window.
func (p *Presenter) CloseRequested() bool {
	return p.win.Closed()
}

// colorFromUint32 converts a 0xRRGGBB config value into a pixel color,
// falling back to the teacher's colornames.Black clear color when the
// config value is the zero value.
func colorFromUint32(c uint32) pixel.RGBA {
	if c == 0 {
		return pixel.ToRGBA(colornames.Black)
	}
	r := float64((c>>16)&0xFF) / 255
	g := float64((c>>8)&0xFF) / 255
	b := float64(c&0xFF) / 255
	return pixel.RGB(r, g, b)
}

func colorToStd(c pixel.RGBA) color.Color {
	return c
}

// keyNames maps the host key names accepted in config.toml's
// key_bindings to pixelgl buttons, covering the teacher's original
// hardcoded QWERTY layout plus digits 0-9.
var keyNames = map[string]pixelgl.Button{
	"0": pixelgl.Key0, "1": pixelgl.Key1, "2": pixelgl.Key2, "3": pixelgl.Key3,
	"4": pixelgl.Key4, "5": pixelgl.Key5, "6": pixelgl.Key6, "7": pixelgl.Key7,
	"8": pixelgl.Key8, "9": pixelgl.Key9,
	"A": pixelgl.KeyA, "B": pixelgl.KeyB, "C": pixelgl.KeyC, "D": pixelgl.KeyD,
	"E": pixelgl.KeyE, "F": pixelgl.KeyF, "G": pixelgl.KeyG, "H": pixelgl.KeyH,
	"I": pixelgl.KeyI, "J": pixelgl.KeyJ, "K": pixelgl.KeyK, "L": pixelgl.KeyL,
	"M": pixelgl.KeyM, "N": pixelgl.KeyN, "O": pixelgl.KeyO, "P": pixelgl.KeyP,
	"Q": pixelgl.KeyQ, "R": pixelgl.KeyR, "S": pixelgl.KeyS, "T": pixelgl.KeyT,
	"U": pixelgl.KeyU, "V": pixelgl.KeyV, "W": pixelgl.KeyW, "X": pixelgl.KeyX,
	"Y": pixelgl.KeyY, "Z": pixelgl.KeyZ,
}

// buildKeyMap resolves bindings[0..15] (hex key -> host key name) to
// pixelgl buttons.
func buildKeyMap(bindings [16]string) (map[byte]pixelgl.Button, error) {
	out := make(map[byte]pixelgl.Button, 16)
	for hex, name := range bindings {
		btn, ok := keyNames[name]
		if !ok {
			return nil, fmt.Errorf("pixelpresenter: unknown key_bindings[%d] name %q", hex, name)
		}
		out[byte(hex)] = btn
	}
	return out, nil
}
