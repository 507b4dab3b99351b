package command

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Operation declares one action of a subcommand and its required-field rule.
type Operation struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Required    []string `yaml:"required,omitempty"`
	OneOf       []string `yaml:"one_of,omitempty"`
}

// Operations is a list of declared operations.
//
// Accepted formats:
//   - string array: operations: [list, lists]
//   - object array: operations: [{name: delete, required: [section-id]}]
type Operations []Operation

func (o *Operations) UnmarshalYAML(n *yaml.Node) error {
	if n == nil {
		*o = nil
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("operations must be a sequence")
	}

	out := make([]Operation, 0, len(n.Content))
	for _, item := range n.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, Operation{Name: strings.TrimSpace(item.Value)})
		case yaml.MappingNode:
			var tmp Operation
			if err := item.Decode(&tmp); err != nil {
				return fmt.Errorf("invalid operation object: %w", err)
			}
			tmp.Name = strings.TrimSpace(tmp.Name)
			out = append(out, tmp)
		default:
			return fmt.Errorf("invalid operation entry (must be string or object)")
		}
	}

	*o = out
	return nil
}

// Descriptor maps a subcommand to its target binary and operations.
//
// Implicit subcommands have exactly one operation, named after the
// subcommand, that the user never types.
type Descriptor struct {
	Name        string     `yaml:"name"`
	Binary      string     `yaml:"binary"`
	Description string     `yaml:"description,omitempty"`
	Implicit    bool       `yaml:"implicit,omitempty"`
	Fields      []string   `yaml:"fields"`
	Operations  Operations `yaml:"operations"`
}

// Operation returns the named operation of the descriptor.
func (d *Descriptor) Operation(name string) (*Operation, error) {
	for i := range d.Operations {
		if d.Operations[i].Name == name {
			return &d.Operations[i], nil
		}
	}
	return nil, &UnknownCommandError{Name: d.Name, Operation: name}
}

// OperationNames returns the operation names in manifest order.
func (d *Descriptor) OperationNames() []string {
	names := make([]string, 0, len(d.Operations))
	for _, op := range d.Operations {
		names = append(names, op.Name)
	}
	return names
}

// Manifest is the top-level shape of commands.yaml.
type Manifest struct {
	Commands []Descriptor `yaml:"commands"`
}

// validateManifest checks required manifest fields.
func validateManifest(m *Manifest) error {
	if len(m.Commands) == 0 {
		return fmt.Errorf("at least one command must be declared")
	}

	seen := make(map[string]bool, len(m.Commands))
	for i := range m.Commands {
		d := &m.Commands[i]
		if d.Name == "" {
			return fmt.Errorf("command %d: name is required", i)
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate command %q", d.Name)
		}
		seen[d.Name] = true

		if d.Binary == "" {
			return fmt.Errorf("command %q: binary is required", d.Name)
		}
		if strings.ContainsAny(d.Binary, `/\`) || strings.Contains(d.Binary, "..") {
			return fmt.Errorf("command %q: binary must be a bare file name: %s", d.Name, d.Binary)
		}
		if err := validateOperations(d); err != nil {
			return fmt.Errorf("command %q: %w", d.Name, err)
		}
	}
	return nil
}

func validateOperations(d *Descriptor) error {
	if len(d.Operations) == 0 {
		return fmt.Errorf("at least one operation must be declared")
	}
	if d.Implicit && (len(d.Operations) != 1 || d.Operations[0].Name != d.Name) {
		return fmt.Errorf("implicit command must declare exactly one operation named %q", d.Name)
	}

	fields := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		fields[f] = true
	}

	seen := make(map[string]bool, len(d.Operations))
	for _, op := range d.Operations {
		if op.Name == "" {
			return fmt.Errorf("operation name is required")
		}
		if seen[op.Name] {
			return fmt.Errorf("duplicate operation %q", op.Name)
		}
		seen[op.Name] = true

		for _, f := range append(append([]string{}, op.Required...), op.OneOf...) {
			if !fields[f] {
				return fmt.Errorf("operation %q references undeclared field %q", op.Name, f)
			}
		}
		if len(op.OneOf) == 1 {
			return fmt.Errorf("operation %q: one_of needs at least two fields", op.Name)
		}
	}
	return nil
}
