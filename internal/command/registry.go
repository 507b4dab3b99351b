// Package command holds the static registry of remindctl subcommands.
//
// Each subcommand is described by a Descriptor: the logical name of the
// external binary it forwards to, and the operations it accepts together
// with their required-field rules. Descriptors come from the embedded
// commands.yaml manifest and are never mutated after Load returns.
package command

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed commands.yaml
var embeddedManifest []byte

// UnknownCommandError reports a subcommand or operation that is not in the registry.
type UnknownCommandError struct {
	Name      string
	Operation string // empty when the subcommand itself is unknown
}

func (e *UnknownCommandError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("unsupported %s operation: %q", e.Name, e.Operation)
	}
	return fmt.Sprintf("unknown command %q", e.Name)
}

// Registry holds descriptors indexed by subcommand name.
type Registry struct {
	order       []string
	descriptors map[string]*Descriptor
}

// Load parses and validates a YAML manifest.
func Load(data []byte) (*Registry, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse command manifest: %w", err)
	}
	if err := validateManifest(&m); err != nil {
		return nil, fmt.Errorf("invalid command manifest: %w", err)
	}

	r := &Registry{descriptors: make(map[string]*Descriptor, len(m.Commands))}
	for i := range m.Commands {
		d := m.Commands[i]
		r.order = append(r.order, d.Name)
		r.descriptors[d.Name] = &d
	}
	return r, nil
}

// Default returns the registry built from the embedded manifest.
func Default() *Registry {
	r, err := Load(embeddedManifest)
	if err != nil {
		panic(fmt.Sprintf("embedded command manifest: %v", err))
	}
	return r
}

// Lookup returns the descriptor for a subcommand.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	d, ok := r.descriptors[name]
	if !ok {
		return nil, &UnknownCommandError{Name: name}
	}
	return d, nil
}

// Names returns subcommand names in manifest order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// WithBinaries returns a copy of the registry with binary names replaced
// for the given subcommands. Overrides for unknown subcommands are an error.
func (r *Registry) WithBinaries(overrides map[string]string) (*Registry, error) {
	out := &Registry{
		order:       r.Names(),
		descriptors: make(map[string]*Descriptor, len(r.descriptors)),
	}
	for name, d := range r.descriptors {
		cp := *d
		out.descriptors[name] = &cp
	}
	for name, binary := range overrides {
		d, ok := out.descriptors[name]
		if !ok {
			return nil, &UnknownCommandError{Name: name}
		}
		if binary != "" {
			d.Binary = binary
		}
	}
	if err := validateManifest(out.manifest()); err != nil {
		return nil, fmt.Errorf("invalid binary override: %w", err)
	}
	return out, nil
}

func (r *Registry) manifest() *Manifest {
	m := &Manifest{Commands: make([]Descriptor, 0, len(r.order))}
	for _, name := range r.order {
		m.Commands = append(m.Commands, *r.descriptors[name])
	}
	return m
}
