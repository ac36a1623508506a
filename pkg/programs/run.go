package programs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/walker/internal/logging"
	"github.com/aretw0/walker/internal/runtime"
)

// DefaultDelay is the pause between instructions when animating.
const DefaultDelay = 200 * time.Millisecond

// ErrProgramPanicked wraps a panic raised by program code itself.
var ErrProgramPanicked = errors.New("program panicked")

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger  *slog.Logger
	animate bool
	delay   time.Duration
	name    string
}

// WithLogger sets the logger used for run lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

// WithAnimation keeps display updates on while the program runs and pauses
// delay between instructions. A zero delay means DefaultDelay.
func WithAnimation(delay time.Duration) Option {
	return func(c *runConfig) {
		c.animate = true
		if delay <= 0 {
			delay = DefaultDelay
		}
		c.delay = delay
	}
}

// WithName names the program in logs.
func WithName(name string) Option {
	return func(c *runConfig) {
		c.name = name
	}
}

// Run executes p against m. Display updates are suppressed for the duration
// of the run unless animating. If an instruction fails, or ctx is cancelled,
// the program stops, an error entry is recorded and the error is returned.
func Run(ctx context.Context, m Machine, p Program, opts ...Option) error {
	cfg := &runConfig{logger: logging.NewNop(), name: "program"}
	for _, opt := range opts {
		opt(cfg)
	}

	cmds := &commands{ctx: ctx, m: m}
	if cfg.animate {
		cmds.delay = cfg.delay
	}

	cfg.logger.Debug("program started", "program", cfg.name, "animate", cfg.animate)
	start := time.Now()

	var err error
	if cfg.animate {
		err = execute(cmds, p)
	} else {
		err = m.Suppress(func() error { return execute(cmds, p) })
	}

	if err != nil {
		m.RecordError(err)
		cfg.logger.Warn("program aborted", "program", cfg.name, "error", err)
		return fmt.Errorf("%s: %w", cfg.name, err)
	}
	cfg.logger.Info("program finished", "program", cfg.name, "duration", time.Since(start))
	return nil
}

// execute runs p and turns aborts into errors. Panics that are not aborts
// are reported as ErrProgramPanicked, except replay faults from the trace
// which are left to propagate.
func execute(c *commands, p Program) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch v := r.(type) {
		case abort:
			err = v.err
		case error:
			var fault *runtime.FaultError
			if errors.As(v, &fault) {
				panic(r)
			}
			err = fmt.Errorf("%w: %v", ErrProgramPanicked, v)
		default:
			err = fmt.Errorf("%w: %v", ErrProgramPanicked, v)
		}
	}()
	p(c)
	return nil
}
