// Package config loads walker settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/walker/internal/logging"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no configuration file is given explicitly.
const DefaultPath = "walker.yaml"

// Config is the complete set of walker settings.
type Config struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFile   string `mapstructure:"log_file" yaml:"log_file"`
	WorldsDir string `mapstructure:"worlds_dir" yaml:"worlds_dir"`
	// ProgramsFile lists external programs; a missing file is not an error.
	ProgramsFile string       `mapstructure:"programs_file" yaml:"programs_file"`
	Store        StoreConfig  `mapstructure:"store" yaml:"store"`
	Server       ServerConfig `mapstructure:"server" yaml:"server"`
	Run          RunConfig    `mapstructure:"run" yaml:"run"`
	World        WorldConfig  `mapstructure:"world" yaml:"world"`
}

// StoreConfig selects where named worlds are kept.
type StoreConfig struct {
	Kind  string      `mapstructure:"kind" yaml:"kind"` // memory, file or redis
	Redis RedisConfig `mapstructure:"redis" yaml:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// RunConfig tunes program execution.
type RunConfig struct {
	// Delay is the pause between instructions when animating.
	Delay time.Duration `mapstructure:"delay" yaml:"delay"`
}

// WorldConfig describes the world created by "walker new" without flags.
// X and Y are interior coordinates.
type WorldConfig struct {
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	X      int    `mapstructure:"x" yaml:"x"`
	Y      int    `mapstructure:"y" yaml:"y"`
	Dir    string `mapstructure:"dir" yaml:"dir"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		LogLevel:     "info",
		WorldsDir:    "worlds",
		ProgramsFile: "programs.yaml",
		Store: StoreConfig{
			Kind: "file",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "walker:world:",
			},
		},
		Server: ServerConfig{Port: 8080},
		Run:    RunConfig{Delay: 200 * time.Millisecond},
		World: WorldConfig{
			Width:  domain.DefaultWidth,
			Height: domain.DefaultHeight,
			X:      domain.DefaultAgent.X - 1,
			Y:      domain.DefaultAgent.Y - 1,
			Dir:    "east",
		},
	}
}

// envKeys maps environment variables onto configuration keys.
var envKeys = map[string][]string{
	"WALKER_LOG_LEVEL":      {"log_level"},
	"WALKER_LOG_FILE":       {"log_file"},
	"WALKER_WORLDS_DIR":     {"worlds_dir"},
	"WALKER_PROGRAMS_FILE":  {"programs_file"},
	"WALKER_STORE":          {"store", "kind"},
	"WALKER_REDIS_ADDR":     {"store", "redis", "addr"},
	"WALKER_REDIS_PASSWORD": {"store", "redis", "password"},
	"WALKER_REDIS_DB":       {"store", "redis", "db"},
	"WALKER_PORT":           {"server", "port"},
	"WALKER_RUN_DELAY":      {"run", "delay"},
}

// Load reads path from fs on top of Defaults, then applies WALKER_* variables
// looked up through getenv (os.Getenv when nil). An empty path skips the file.
func Load(fs afero.Fs, path string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	raw := map[string]any{}
	if path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	for env, key := range envKeys {
		if v := getenv(env); v != "" {
			setPath(raw, key, v)
		}
	}

	cfg := Defaults()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve picks the configuration file: explicit wins, else DefaultPath when it exists.
func Resolve(fs afero.Fs, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if ok, _ := afero.Exists(fs, DefaultPath); ok {
		return DefaultPath
	}
	return ""
}

func setPath(m map[string]any, key []string, v string) {
	for _, k := range key[:len(key)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[k] = next
		}
		m = next
	}
	m[key[len(key)-1]] = v
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Store.Kind) {
	case "memory", "file", "redis":
	default:
		errs = append(errs, fmt.Errorf("unknown store kind %q (want memory, file or redis)", c.Store.Kind))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	if c.Run.Delay < 0 {
		errs = append(errs, fmt.Errorf("run delay cannot be negative"))
	}
	if err := domain.CheckDimensions(c.World.Width, c.World.Height); err != nil {
		errs = append(errs, err)
	}
	if c.World.X < 0 || c.World.Y < 0 || c.World.X >= c.World.Width || c.World.Y >= c.World.Height {
		errs = append(errs, fmt.Errorf("world agent (%d,%d) outside %dx%d", c.World.X, c.World.Y, c.World.Width, c.World.Height))
	}
	if _, err := domain.ParseDirection(c.World.Dir); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
