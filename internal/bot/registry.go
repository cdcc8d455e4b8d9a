package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrDuplicateCommand is returned when two commands share a name.
	ErrDuplicateCommand = errors.New("duplicate command name")

	// ErrDuplicateComponent is returned when two components share an id.
	ErrDuplicateComponent = errors.New("duplicate component id")
)

// Registry holds registered modules and the commands and components they provide.
type Registry struct {
	mu         sync.RWMutex
	modules    []Module
	commands   map[string]*Command
	order      []string
	components map[string]*Component
}

// NewRegistry creates a registry holding the given modules in order.
func NewRegistry(modules ...Module) *Registry {
	r := &Registry{
		modules:    make([]Module, 0, len(modules)),
		commands:   make(map[string]*Command),
		components: make(map[string]*Component),
	}
	for _, m := range modules {
		r.Register(m)
	}
	return r
}

// Register adds a module to the registry.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, m)
}

// Modules returns a snapshot of all registered modules.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Return a copy to prevent external modification
	result := make([]Module, len(r.modules))
	copy(result, r.modules)
	return result
}

// Collect gathers commands and components from every module.
// Modules must be initialized first.
func (r *Registry) Collect() error {
	for _, m := range r.Modules() {
		for _, cmd := range m.Commands() {
			if err := r.AddCommand(cmd); err != nil {
				return fmt.Errorf("module %s: %w", m.Name(), err)
			}
		}
		for _, c := range m.Components() {
			if err := r.AddComponent(c); err != nil {
				return fmt.Errorf("module %s: %w", m.Name(), err)
			}
		}
	}

	slog.Info("collected interactions",
		"commands", len(r.Commands()),
		"components", r.componentCount(),
	)
	return nil
}

// AddCommand registers cmd under its name. Malformed and disabled commands
// are skipped.
func (r *Registry) AddCommand(cmd *Command) error {
	if cmd == nil || cmd.Definition == nil || cmd.Name() == "" || cmd.Handler == nil {
		slog.Warn("skipped malformed command", "command", cmd.Name())
		return nil
	}
	if cmd.Disabled {
		slog.Debug("skipped disabled command", "command", cmd.Name())
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Name()
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	r.commands[name] = cmd
	r.order = append(r.order, name)
	slog.Debug("registered command", "command", name)
	return nil
}

// AddComponent registers c under its custom id. Components without an id or
// action are skipped.
func (r *Registry) AddComponent(c *Component) error {
	if c == nil || c.ID == "" || c.Action == nil {
		id := ""
		if c != nil {
			id = c.ID
		}
		slog.Warn("skipped malformed component", "component", id)
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[c.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, c.ID)
	}
	r.components[c.ID] = c
	slog.Debug("registered component", "component", c.ID)
	return nil
}

// Command looks up a command by name.
func (r *Registry) Command(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Component looks up a component by custom id.
func (r *Registry) Component(id string) (*Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[id]
	return c, ok
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.commands[name])
	}
	return result
}

func (r *Registry) componentCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}
