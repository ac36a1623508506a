package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/walker"
	"github.com/aretw0/walker/internal/presentation/tui"
	"github.com/aretw0/walker/pkg/programs"
	"github.com/muesli/termenv"
)

// PlayOptions configures the interactive session.
type PlayOptions struct {
	Profile  termenv.Profile
	Prompt   bool
	Programs *programs.Registry
	// Render turns markdown into terminal output; nil prints markdown as is.
	Render func(string) (string, error)
}

const playHelp = `commands:
  l | left          turn left            s | step        step forward
  r | right         turn right           p | put         put a marker
  g | get           take the marker      f | wall?       is a wall ahead?
  o | marker?       is there a marker?   debug <text>    add a trace message
  back [n]          undo n entries       fwd [n]         redo n entries
  goto <k>          move the trace cursor to entry k
  continue          drop undone entries  trace           show the trace
  run <program>     run a program        programs        list programs
  show              draw the world       save <path>     write the world to a file
  load <path>       read a world file    help            this text
  quit              leave`

// player holds the REPL state.
type player struct {
	eng  *walker.Engine
	out  io.Writer
	opts PlayOptions
}

// Play runs a line-oriented session on eng until quit, EOF or ctx cancellation.
func Play(ctx context.Context, eng *walker.Engine, in io.Reader, out io.Writer, opts PlayOptions) error {
	if opts.Programs == nil {
		opts.Programs = programs.Default()
	}
	p := &player{eng: eng, out: out, opts: opts}

	p.show()
	scanner := bufio.NewScanner(ctxReader{ctx: ctx, r: in})
	for {
		if opts.Prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		quit, err := p.exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(out, "! %v\n", err)
		}
		if quit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil && HandleExecutionError(err) != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

func (p *player) show() {
	fmt.Fprint(p.out, tui.RenderGrid(p.opts.Profile, p.eng.World()))
	fmt.Fprintf(p.out, "%s | trace %d/%d\n", tui.Status(p.eng.World()), p.eng.Cursor(), len(p.eng.Trace())-1)
}

// count parses an optional positive repeat count.
func count(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected a positive count, got %q", args[0])
	}
	return n, nil
}

func (p *player) exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	// mutating commands redraw the world when they succeed
	redraw := func(err error) (bool, error) {
		if err == nil {
			p.show()
		}
		return false, err
	}

	switch cmd {
	case "q", "quit", "exit":
		return true, nil
	case "h", "help", "?":
		fmt.Fprintln(p.out, playHelp)
		return false, nil
	case "show":
		p.show()
		return false, nil

	case "l", "left":
		return redraw(p.eng.TurnLeft())
	case "r", "right":
		return redraw(p.eng.TurnRight())
	case "s", "step":
		return redraw(p.eng.Step())
	case "p", "put":
		return redraw(p.eng.PutMarker())
	case "g", "get":
		return redraw(p.eng.GetMarker())
	case "f", "wall?":
		fmt.Fprintf(p.out, "facing wall: %t\n", p.eng.FacingWall())
		return false, nil
	case "o", "marker?":
		fmt.Fprintf(p.out, "on marker: %t\n", p.eng.OnMarker())
		return false, nil
	case "debug":
		p.eng.Debug(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0])))
		return false, nil

	case "back", "b":
		n, err := count(args)
		if err != nil {
			return false, err
		}
		return redraw(p.eng.Back(n))
	case "fwd", "forward":
		n, err := count(args)
		if err != nil {
			return false, err
		}
		return redraw(p.eng.Forward(n))
	case "goto":
		if len(args) != 1 {
			return false, errors.New("usage: goto <index>")
		}
		k, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid index %q", args[0])
		}
		return redraw(p.eng.MoveCursorTo(k))
	case "continue":
		p.eng.ContinueFromHere()
		return redraw(nil)
	case "trace":
		return false, p.trace()

	case "programs":
		fmt.Fprintln(p.out, strings.Join(p.opts.Programs.Names(), "\n"))
		return false, nil
	case "run":
		if len(args) != 1 {
			return false, errors.New("usage: run <program>")
		}
		prog, err := p.opts.Programs.Get(args[0])
		if err != nil {
			return false, err
		}
		err = programs.Run(ctx, p.eng, prog, programs.WithName(args[0]))
		p.show()
		return false, err

	case "save":
		if len(args) != 1 {
			return false, errors.New("usage: save <path>")
		}
		if err := p.eng.SaveFile(args[0]); err != nil {
			return false, err
		}
		notice(p.out, "World saved to %s", args[0])
		return false, nil
	case "load":
		if len(args) != 1 {
			return false, errors.New("usage: load <path>")
		}
		return redraw(p.eng.LoadFile(args[0]))
	}
	return false, fmt.Errorf("unknown command %q (try help)", cmd)
}

func (p *player) trace() error {
	md := tui.TraceMarkdown(p.eng.Trace(), p.eng.Cursor())
	if p.opts.Render == nil {
		fmt.Fprint(p.out, md)
		return nil
	}
	out, err := p.opts.Render(md)
	if err != nil {
		return err
	}
	fmt.Fprint(p.out, out)
	return nil
}
