// Package beeptone implements tone.Driver with faiface/beep waveform
// synthesis, grounded on the teacher's ManageAudio (speaker.Init, play
// a streamer on a channel event), generalized from a fixed mp3 sample
// to a synthesized tone whose waveform and frequency come from
// sound_timer.tone_waveform/tone_frequency.
package beeptone

import (
	"fmt"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"

	"github.com/harrowgate/chip8/internal/config"
)

// sampleRate matches the teacher's speaker.Init call, just without a
// decoded file to read it from.
const sampleRate = beep.SampleRate(44100)

// bufferSize mirrors the teacher's format.SampleRate.N(time.Second/10)
// buffer sizing, computed directly since there's no decoded format
// here.
var bufferSize = sampleRate.N(time.Second / 10)

// Driver plays a continuous waveform on the speaker's dedicated
// channel while on, and silences it while off.
type Driver struct {
	ctrl *beep.Ctrl
}

// New builds a Driver synthesizing a freq Hz tone of the given
// waveform, initializing the global speaker the first time it's
// called (speaker.Init panics if called twice, so callers must
// construct at most one Driver per process).
func New(freq float32, waveform config.ToneWaveform) (*Driver, error) {
	tone, err := buildTone(waveform, float64(freq))
	if err != nil {
		return nil, err
	}

	if err := speaker.Init(sampleRate, bufferSize); err != nil {
		return nil, fmt.Errorf("beeptone: speaker init failed: %w", err)
	}

	ctrl := &beep.Ctrl{Streamer: beep.Loop(-1, tone), Paused: true}
	speaker.Play(ctrl)

	return &Driver{ctrl: ctrl}, nil
}

// SetTone pauses or resumes the looped tone stream.
func (d *Driver) SetTone(on bool) {
	speaker.Lock()
	d.ctrl.Paused = !on
	speaker.Unlock()
}

// buildTone resolves waveform to a beep.Streamer. Sine, square, and
// sawtooth come from beep/generators; triangle isn't offered by that
// package, so it's synthesized directly against beep.SampleRate's
// sample-to-duration math the same way generators' own waveforms are
// built, justified as a stdlib-only branch in DESIGN.md.
func buildTone(waveform config.ToneWaveform, freq float64) (beep.Streamer, error) {
	switch waveform {
	case config.WaveSine:
		return generators.SinTone(sampleRate, freq)
	case config.WaveSquare:
		return generators.SquareTone(sampleRate, freq)
	case config.WaveSawtooth:
		return generators.SawtoothTone(sampleRate, freq)
	case config.WaveTriangle:
		return triangleTone(sampleRate, freq), nil
	default:
		return nil, fmt.Errorf("beeptone: unknown waveform %q", waveform)
	}
}

// triangleStreamer generates a triangle wave by integrating phase
// linearly and folding it, the same closed-form approach
// generators.SawtoothTone uses for its own shape.
type triangleStreamer struct {
	sr    beep.SampleRate
	freq  float64
	phase float64
}

func triangleTone(sr beep.SampleRate, freq float64) beep.Streamer {
	return &triangleStreamer{sr: sr, freq: freq}
}

func (t *triangleStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	dt := t.freq / float64(t.sr)
	for i := range samples {
		v := 2*math.Abs(2*(t.phase-math.Floor(t.phase+0.5))) - 1
		samples[i][0] = v
		samples[i][1] = v
		t.phase += dt
		if t.phase > 1 {
			t.phase -= 1
		}
	}
	return len(samples), true
}

func (t *triangleStreamer) Err() error { return nil }
