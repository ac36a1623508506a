package programs

import (
	"errors"
	"fmt"
	"sort"
)

// ErrProgramNotFound is returned when looking up an unregistered program.
var ErrProgramNotFound = errors.New("program not found")

// Program is a sequence of instructions.
type Program func(c Commands)

// Registry holds named programs in registration order.
type Registry struct {
	names    []string
	programs map[string]Program
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{programs: make(map[string]Program)}
}

// Register adds a program. Registering a name twice is an error.
func (r *Registry) Register(name string, p Program) error {
	if name == "" {
		return fmt.Errorf("program name cannot be empty")
	}
	if p == nil {
		return fmt.Errorf("program %q is nil", name)
	}
	if _, exists := r.programs[name]; exists {
		return fmt.Errorf("program %q already registered", name)
	}
	r.names = append(r.names, name)
	r.programs[name] = p
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, p Program) {
	if err := r.Register(name, p); err != nil {
		panic(err)
	}
}

// Get looks a program up by name.
func (r *Registry) Get(name string) (Program, error) {
	p, ok := r.programs[name]
	if !ok {
		known := append([]string(nil), r.names...)
		sort.Strings(known)
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrProgramNotFound, name, known)
	}
	return p, nil
}

// Names lists programs in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}
