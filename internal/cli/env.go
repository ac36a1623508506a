package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/walker"
	"github.com/aretw0/walker/internal/adapters/file"
	"github.com/aretw0/walker/internal/adapters/redis"
	"github.com/aretw0/walker/internal/config"
	"github.com/aretw0/walker/internal/logging"
	"github.com/aretw0/walker/pkg/adapters/memory"
	"github.com/aretw0/walker/pkg/adapters/process"
	"github.com/aretw0/walker/pkg/observability"
	"github.com/aretw0/walker/pkg/persistence/middleware"
	"github.com/aretw0/walker/pkg/ports"
	"github.com/aretw0/walker/pkg/programs"
	"github.com/spf13/afero"
)

// Env bundles what every command needs: settings, logger, filesystem and store.
type Env struct {
	Config *config.Config
	Logger *slog.Logger
	Fs     afero.Fs

	closers []io.Closer
}

// EnvOptions come from global flags.
type EnvOptions struct {
	ConfigPath string
	Debug      bool
	Fs         afero.Fs
	Getenv     func(string) string
	Console    io.Writer
}

// NewEnv loads the configuration and builds the logger.
func NewEnv(opts EnvOptions) (*Env, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	cfg, err := config.Load(fs, config.Resolve(fs, opts.ConfigPath), opts.Getenv)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		cfg.LogLevel = "debug"
	}

	env := &Env{Config: cfg, Fs: fs}
	level, _ := logging.ParseLevel(cfg.LogLevel)

	var sinks []io.Writer
	if cfg.LogFile != "" {
		f, err := fs.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sinks = append(sinks, f)
		env.closers = append(env.closers, f)
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	env.Logger = logging.NewWithWriter(console, level, sinks...)
	slog.SetDefault(env.Logger)
	return env, nil
}

// Close releases log files and store connections.
func (e *Env) Close() error {
	var first error
	for _, c := range e.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	e.closers = nil
	return first
}

// Store opens the configured world store. Only decodable worlds go in or come out.
func (e *Env) Store() (ports.WorldStore, error) {
	var store ports.WorldStore
	switch strings.ToLower(e.Config.Store.Kind) {
	case "memory":
		store = memory.NewStore(nil)
	case "file":
		store = file.New(e.Fs, e.Config.WorldsDir)
	case "redis":
		rc := e.Config.Store.Redis
		rs := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))
		e.closers = append(e.closers, rs)
		e.Logger.Debug("redis store configured", "addr", rc.Addr, "db", rc.DB)
		store = rs
	default:
		return nil, fmt.Errorf("unknown store kind %q", e.Config.Store.Kind)
	}
	return middleware.Chain(store,
		middleware.NewLoggingMiddleware(e.Logger),
		middleware.NewValidationMiddleware(),
	), nil
}

// Programs returns the built-in programs plus the external ones listed in
// the configured programs file. External programs run from the file's directory.
func (e *Env) Programs() (*programs.Registry, error) {
	reg := programs.Default()
	if e.Config.ProgramsFile == "" {
		return reg, nil
	}
	cfgs, err := process.LoadPrograms(e.Fs, e.Config.ProgramsFile)
	if err != nil {
		return nil, err
	}
	runner := process.NewRunner(
		process.WithBaseDir(filepath.Dir(e.Config.ProgramsFile)),
		process.WithStderr(os.Stderr),
	)
	if err := runner.Register(reg, cfgs); err != nil {
		return nil, fmt.Errorf("%s: %w", e.Config.ProgramsFile, err)
	}
	if len(cfgs) > 0 {
		e.Logger.Debug("external programs registered", "file", e.Config.ProgramsFile, "count", len(cfgs))
	}
	return reg, nil
}

// NewEngine creates an engine on e's filesystem, logging actions at debug level.
// Extra options are applied last, so action hooks passed here replace the logging ones.
func (e *Env) NewEngine(opts ...walker.Option) (*walker.Engine, error) {
	base := []walker.Option{
		walker.WithLogger(e.Logger),
		walker.WithFs(e.Fs),
		walker.WithActionHooks(observability.LogActionHooks(e.Logger)),
	}
	return walker.New(append(base, opts...)...)
}

// OpenWorld loads ref into eng. A ref naming an existing file is read from
// disk; otherwise it is looked up in the store.
func (e *Env) OpenWorld(ctx context.Context, eng *walker.Engine, ref string) error {
	if ok, _ := afero.Exists(e.Fs, ref); ok {
		return eng.LoadFile(ref)
	}
	store, err := e.Store()
	if err != nil {
		return err
	}
	text, err := store.Load(ctx, ref)
	if err != nil {
		return fmt.Errorf("world %q: %w", ref, err)
	}
	if err := eng.LoadText(text); err != nil {
		return err
	}
	eng.Name = ref
	return nil
}
