package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/walker"
	"github.com/aretw0/walker/internal/presentation/tui"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/aretw0/walker/pkg/programs"
	"github.com/muesli/termenv"
)

// RunOptions configures a batch program run.
type RunOptions struct {
	World    string
	Program  string
	Animate  bool
	Delay    time.Duration
	Save     string
	Trace    bool
	Profile  termenv.Profile
	Programs *programs.Registry
	Render   func(string) (string, error)
}

// animator redraws the world on every grid change.
func animator(out io.Writer, profile termenv.Profile, eng **walker.Engine) domain.GridHooks {
	term := termenv.NewOutput(out, termenv.WithProfile(profile))
	frame := func() {
		if *eng == nil {
			return
		}
		if profile != termenv.Ascii {
			term.ClearScreen()
		}
		fmt.Fprint(out, tui.RenderGrid(profile, (*eng).World()))
	}
	return domain.GridHooks{
		OnAgentMoved:  func(_, _ domain.Point, _ domain.Direction) { frame() },
		OnCellChanged: func(domain.Point) { frame() },
	}
}

// RunProgram loads a world, runs one program on it and prints the outcome.
// The returned error is the program's abort reason, if any.
func RunProgram(ctx context.Context, env *Env, out io.Writer, opts RunOptions) error {
	if opts.Programs == nil {
		opts.Programs = programs.Default()
	}
	prog, err := opts.Programs.Get(opts.Program)
	if err != nil {
		return err
	}

	var eng *walker.Engine
	var engOpts []walker.Option
	if opts.Animate {
		engOpts = append(engOpts, walker.WithGridHooks(animator(out, opts.Profile, &eng)))
	}
	eng, err = env.NewEngine(engOpts...)
	if err != nil {
		return err
	}
	if opts.World != "" {
		if err := env.OpenWorld(ctx, eng, opts.World); err != nil {
			return err
		}
	}

	runOpts := []programs.Option{programs.WithName(opts.Program), programs.WithLogger(env.Logger)}
	if opts.Animate {
		runOpts = append(runOpts, programs.WithAnimation(opts.Delay))
	}
	start := time.Now()
	runErr := programs.Run(ctx, eng, prog, runOpts...)

	fmt.Fprint(out, tui.RenderGrid(opts.Profile, eng.World()))
	fmt.Fprintln(out, tui.Status(eng.World()))
	if opts.Trace {
		md := tui.TraceMarkdown(eng.Trace(), eng.Cursor())
		if opts.Render != nil {
			if rendered, err := opts.Render(md); err == nil {
				md = rendered
			}
		}
		fmt.Fprint(out, md)
	}
	if runErr != nil {
		notice(out, "Program aborted after %d trace entries: %v", len(eng.Trace())-1, runErr)
	} else {
		notice(out, "Program %s finished in %s (%d trace entries).", opts.Program, time.Since(start).Round(time.Millisecond), len(eng.Trace())-1)
	}

	if opts.Save != "" {
		if err := eng.SaveFile(opts.Save); err != nil {
			return err
		}
		notice(out, "World saved to %s", opts.Save)
	}
	return runErr
}
