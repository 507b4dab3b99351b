package request

import (
	"fmt"
	"strings"

	"github.com/mattjoyce/remindctl/internal/command"
)

// MissingFieldError reports required flags absent from a request.
type MissingFieldError struct {
	Command   string
	Operation string
	// Fields are the missing flags, e.g. "--list-id".
	Fields []string
	// OneOf is set when any single one of Fields would have satisfied the rule.
	OneOf bool
}

func (e *MissingFieldError) Error() string {
	target := e.Command
	if e.Operation != "" && e.Operation != e.Command {
		target += " " + e.Operation
	}
	if e.OneOf {
		return fmt.Sprintf("either %s must be specified for %s", strings.Join(e.Fields, " or "), target)
	}
	return fmt.Sprintf("missing required field(s) for %s: %s", target, strings.Join(e.Fields, ", "))
}

// Validate checks req against the required-field rule of op.
// Empty values count as absent.
func Validate(req Request, op *command.Operation) error {
	if req.Operation() != op.Name {
		return fmt.Errorf("request operation %q does not match %q", req.Operation(), op.Name)
	}
	fields := req.Fields()

	var missing []string
	for _, name := range op.Required {
		if fields[name] == "" {
			missing = append(missing, flagName(name))
		}
	}
	if len(missing) > 0 {
		return &MissingFieldError{Command: req.Command(), Operation: req.Operation(), Fields: missing}
	}

	if len(op.OneOf) > 0 {
		for _, name := range op.OneOf {
			if fields[name] != "" {
				return nil
			}
		}
		flags := make([]string, 0, len(op.OneOf))
		for _, name := range op.OneOf {
			flags = append(flags, flagName(name))
		}
		return &MissingFieldError{Command: req.Command(), Operation: req.Operation(), Fields: flags, OneOf: true}
	}
	return nil
}

func flagName(field string) string { return "--" + field }
