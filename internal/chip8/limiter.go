package chip8

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Limiter is a self-correcting interval gate used by every pacing
// agent (CPU, timers, rasterizer). Grounded on original_source's
// emulib::Limiter.
type Limiter struct {
	period   time.Duration
	catchUp  bool
	deadline time.Time
	log      *zap.SugaredLogger
}

// NewLimiter builds a Limiter for freq Hz. freq must be strictly
// positive; this is a startup validation concern, not a runtime one,
// so it returns an error rather than panicking.
func NewLimiter(freq float64, catchUp bool, log *zap.SugaredLogger) (*Limiter, error) {
	if freq <= 0 {
		return nil, fmt.Errorf("chip8: limiter frequency must be > 0, got %v", freq)
	}
	return &Limiter{
		period:   time.Duration(float64(time.Second) / freq),
		catchUp:  catchUp,
		deadline: time.Now(),
		log:      log,
	}, nil
}

// WaitIfEarly sleeps until the deadline if called early, then advances
// the deadline: by exactly one period when catchUp is set (missed
// ticks are caught up), otherwise it is reset to now (lag does not
// accumulate).
func (l *Limiter) WaitIfEarly() {
	now := time.Now()
	if now.Before(l.deadline) {
		time.Sleep(l.deadline.Sub(now))
	}

	if !l.catchUp {
		l.deadline = time.Now()
		return
	}

	next := l.deadline.Add(l.period)
	if next.Before(l.deadline) {
		if l.log != nil {
			l.log.Warnw("limiter deadline overflowed, resetting", "period", l.period)
		}
		next = time.Now()
	}
	l.deadline = next
}

// Reset pins the deadline to now. Called after a blocking instruction
// so the limiter doesn't fire an immediate catch-up burst once the
// block clears.
func (l *Limiter) Reset() {
	l.deadline = time.Now()
}
