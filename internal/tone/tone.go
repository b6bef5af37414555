// Package tone defines the sound timer's audio boundary.
package tone

// Driver turns the host's beep on or off, driven by the sound timer's
// zero/non-zero transitions (spec.md §4.3).
type Driver interface {
	SetTone(on bool)
}
