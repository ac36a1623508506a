package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ProgramConfig describes an external program the walker may launch.
type ProgramConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
}

// ConfigFile represents the structure of programs.yaml.
type ConfigFile struct {
	Programs []ProgramConfig `yaml:"programs" json:"programs"`
}

// LoadPrograms reads a YAML or JSON program list. A missing file means no
// external programs. Entries without a name or command are rejected.
func LoadPrograms(fs afero.Fs, path string) ([]ProgramConfig, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read programs config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	for i, p := range cfg.Programs {
		if p.Name == "" || p.Command == "" {
			return nil, fmt.Errorf("%s: program %d needs a name and a command", path, i+1)
		}
	}
	return cfg.Programs, nil
}
