// Package process runs agent programs as external processes.
//
// The process writes one instruction per line on stdout:
//
//	left | right | step | put | get | wall? | marker? | debug <text>
//
// Queries are answered on its stdin with "true" or "false". The program ends
// when the process exits; a non-zero exit status aborts the run.
package process

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/walker/pkg/programs"
)

var (
	// ErrUnknownInstruction is reported for lines outside the protocol.
	ErrUnknownInstruction = errors.New("unknown instruction")
	// ErrProcessFailed wraps start failures and non-zero exits.
	ErrProcessFailed = errors.New("external program failed")
)

// waitDelay bounds how long Wait lingers on pipes held open by grandchildren
// of a killed process.
const waitDelay = time.Second

// Runner launches configured external programs.
type Runner struct {
	baseDir string
	stderr  io.Writer
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithStderr forwards the processes' stderr to w. It goes to the null device otherwise.
func WithStderr(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stderr = w
	}
}

// NewRunner creates a new process runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds every configured program to reg.
func (r *Runner) Register(reg *programs.Registry, cfgs []ProgramConfig) error {
	for _, cfg := range cfgs {
		if err := reg.Register(cfg.Name, r.Program(cfg)); err != nil {
			return err
		}
	}
	return nil
}

// Program wraps cfg as a program. The process is killed if the run aborts.
func (r *Runner) Program(cfg ProgramConfig) programs.Program {
	return func(c programs.Commands) {
		cmd := exec.CommandContext(c.Context(), cfg.Command, cfg.Args...)
		cmd.Dir = r.baseDir
		cmd.WaitDelay = waitDelay
		if r.stderr != nil {
			cmd.Stderr = r.stderr
		}
		cmd.Env = cmd.Environ()
		keys := make([]string, 0, len(cfg.Environment))
		for k := range cfg.Environment {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Env = append(cmd.Env, k+"="+cfg.Environment[k])
		}

		stdin, err := cmd.StdinPipe()
		if err != nil {
			programs.Abort(fmt.Errorf("%w: %v", ErrProcessFailed, err))
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			programs.Abort(fmt.Errorf("%w: %v", ErrProcessFailed, err))
		}
		if err := cmd.Start(); err != nil {
			programs.Abort(fmt.Errorf("%w: %s: %v", ErrProcessFailed, cfg.Name, err))
		}

		done := false
		defer func() {
			if !done {
				_ = stdin.Close()
				_ = cmd.Process.Kill()
				_ = cmd.Wait()
			}
		}()

		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if err := dispatch(c, stdin, scanner.Text()); err != nil {
				programs.Abort(err)
			}
		}
		if err := scanner.Err(); err != nil {
			programs.Abort(fmt.Errorf("%w: %s: read output: %v", ErrProcessFailed, cfg.Name, err))
		}

		_ = stdin.Close()
		err = cmd.Wait()
		done = true
		if ctxErr := c.Context().Err(); ctxErr != nil {
			programs.Abort(ctxErr)
		}
		if err != nil {
			programs.Abort(fmt.Errorf("%w: %s: %v", ErrProcessFailed, cfg.Name, err))
		}
	}
}

// dispatch executes one protocol line.
func dispatch(c programs.Commands, answer io.Writer, line string) error {
	line = strings.TrimSpace(line)
	verb, rest, _ := strings.Cut(line, " ")
	switch verb {
	case "":
	case "left":
		c.TurnLeft()
	case "right":
		c.TurnRight()
	case "step":
		c.Step()
	case "put":
		c.PutMarker()
	case "get":
		c.GetMarker()
	case "wall?":
		return reply(answer, c.FacingWall())
	case "marker?":
		return reply(answer, c.OnMarker())
	case "debug":
		c.Debug(rest)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownInstruction, line)
	}
	return nil
}

func reply(w io.Writer, v bool) error {
	if _, err := fmt.Fprintf(w, "%t\n", v); err != nil {
		return fmt.Errorf("%w: answer query: %v", ErrProcessFailed, err)
	}
	return nil
}
