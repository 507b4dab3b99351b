package dispatch

import (
	"errors"
	"fmt"

	"github.com/mattjoyce/remindctl/internal/command"
	"github.com/mattjoyce/remindctl/internal/invoke"
	"github.com/mattjoyce/remindctl/internal/locate"
	"github.com/mattjoyce/remindctl/internal/request"
)

// Kind classifies dispatch failures.
type Kind int

const (
	Unclassified Kind = iota
	UnknownCommand
	MissingRequiredField
	ExecutableNotFound
	ExecutionError
	ExternalCommandFailed
	Timeout
)

func (k Kind) String() string {
	switch k {
	case UnknownCommand:
		return "UnknownCommand"
	case MissingRequiredField:
		return "MissingRequiredField"
	case ExecutableNotFound:
		return "ExecutableNotFound"
	case ExecutionError:
		return "ExecutionError"
	case ExternalCommandFailed:
		return "ExternalCommandFailed"
	case Timeout:
		return "Timeout"
	default:
		return "Unclassified"
	}
}

// IntegrityError is returned when a located binary cannot be verified
// against its configured BLAKE3 pin.
type IntegrityError struct {
	Command string
	Path    string
	Err     error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("refusing to run %s for %s: %v", e.Path, e.Command, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// KindOf classifies err. A nil error is Unclassified.
func KindOf(err error) Kind {
	if err == nil {
		return Unclassified
	}

	var (
		unknown   *command.UnknownCommandError
		missing   *request.MissingFieldError
		notFound  *locate.NotFoundError
		timeout   *invoke.TimeoutError
		exitErr   *invoke.ExitError
		execErr   *invoke.ExecError
		integrity *IntegrityError
	)
	switch {
	case errors.As(err, &unknown):
		return UnknownCommand
	case errors.As(err, &missing):
		return MissingRequiredField
	case errors.As(err, &notFound):
		return ExecutableNotFound
	case errors.As(err, &timeout):
		return Timeout
	case errors.As(err, &exitErr):
		return ExternalCommandFailed
	case errors.As(err, &execErr), errors.As(err, &integrity):
		return ExecutionError
	default:
		return Unclassified
	}
}

// CapturedOutput returns the child output carried by err, if any.
// Only ExternalCommandFailed and Timeout errors carry output.
func CapturedOutput(err error) (*invoke.Result, bool) {
	var exitErr *invoke.ExitError
	if errors.As(err, &exitErr) && exitErr.Result != nil {
		return exitErr.Result, true
	}
	var timeout *invoke.TimeoutError
	if errors.As(err, &timeout) && timeout.Result != nil {
		return timeout.Result, true
	}
	return nil, false
}
