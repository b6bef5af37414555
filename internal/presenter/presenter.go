// Package presenter defines the host display/input boundary the five
// agents drive the emulator through, keeping chip8 free of any
// windowing-toolkit import (spec.md §6: "CPU/timers/RAM never import
// the host presenter package directly").
package presenter

import "github.com/harrowgate/chip8/internal/chip8"

// Presenter blits a framebuffer snapshot to the host display, reports
// host keyboard transitions, and reports whether the user asked to
// close the window. Implemented by pixelpresenter.
type Presenter interface {
	Present(fb *chip8.Framebuffer)
	PollEvents() []chip8.KeyEvent
	CloseRequested() bool
}
