package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrowgate/chip8/internal/chip8"
	"github.com/harrowgate/chip8/internal/config"
	"github.com/harrowgate/chip8/internal/presenter"
	"github.com/harrowgate/chip8/internal/presenter/pixelpresenter"
	"github.com/harrowgate/chip8/internal/tone"
	"github.com/harrowgate/chip8/internal/tone/beeptone"
)

// configFileName is always read from the current working directory,
// per spec.md §6.
const configFileName = "config.toml"

// presenterPollHz paces how often the main loop polls the presenter
// for host key transitions and close requests, independent of the
// CPU/GPU/timer agents' own rates.
const presenterPollHz = 120

// runCmd runs the chip8 interpreter against a ROM and waits for a
// shutdown signal to exit. Grounded on the teacher's runChippy,
// generalized from a single-loop VM into the five-agent Machine and
// from panics/os.Exit to wrapped errors cobra reports.
var runCmd = &cobra.Command{
	Use:   "run path/to/rom",
	Short: "run the chip8 interpreter against a ROM",
	Args:  cobra.ExactArgs(1),
	RunE:  runChip8,
}

func runChip8(cmd *cobra.Command, args []string) error {
	romPath := args[0]

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("cmd: failed to build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load(configFileName)
	if err != nil {
		log.Errorw("config load failed", "error", err)
		return err
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		log.Errorw("rom load failed", "error", err)
		return err
	}

	var toneDriver tone.Driver
	toneDriver, err = beeptone.New(cfg.SoundTimer.ToneFrequency, cfg.SoundTimer.ToneWaveform)
	if err != nil {
		log.Errorw("tone driver init failed", "error", err)
		return err
	}

	var pres presenter.Presenter
	pres, err = pixelpresenter.New(cfg)
	if err != nil {
		log.Errorw("presenter init failed", "error", err)
		return err
	}

	m, err := chip8.NewMachine(cfg, toneDriver.SetTone, log)
	if err != nil {
		log.Errorw("machine init failed", "error", err)
		return err
	}
	if err := m.LoadProgram(rom); err != nil {
		log.Errorw("program load failed", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(m.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cpuLimiter, err := chip8.NewLimiter(cfg.CPU.InstructionsPerSecond, true, log)
	if err != nil {
		log.Errorw("cpu limiter init failed", "error", err)
		return err
	}

	var wg sync.WaitGroup
	spawn := func(fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
		}()
	}

	cpu := chip8.NewCPU(m, cpuLimiter)
	spawn(cpu.Run)
	spawn(m.Delay.Run)
	spawn(m.Sound.Run)

	if cfg.GPU.RenderOccasion == config.RenderOnFrequency {
		rasterLimiter, err := chip8.NewLimiter(cfg.GPU.RenderFrequency, false, log)
		if err != nil {
			log.Errorw("rasterizer limiter init failed", "error", err)
			return err
		}
		rasterizer := chip8.NewRasterizer(m.FB, rasterLimiter, m.Active.Load)
		spawn(rasterizer.Run)
	}

	pollLimiter, err := chip8.NewLimiter(presenterPollHz, false, log)
	if err != nil {
		log.Errorw("presenter poll limiter init failed", "error", err)
		return err
	}

	// The presenter loop runs on the calling goroutine, which
	// pixelgl.Run already pinned to the main OS thread.
	for m.Active.Load() {
		select {
		case <-ctx.Done():
			m.Shutdown()
		default:
		}

		pollLimiter.WaitIfEarly()

		if pres.CloseRequested() {
			log.Infow("window closed, shutting down")
			m.Shutdown()
			break
		}

		m.Keys.Update(pres.PollEvents())

		if m.FB.DequeueRender() {
			pres.Present(m.FB)
		}
	}

	wg.Wait()
	return nil
}

// newLogger builds the process-wide zap.SugaredLogger every agent
// constructor takes, grounded on the teacher's bare fmt.Println
// diagnostics, generalized into structured leveled logging.
func newLogger() (*zap.SugaredLogger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
