package dispatch

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mattjoyce/remindctl/internal/command"
	"github.com/mattjoyce/remindctl/internal/config"
	"github.com/mattjoyce/remindctl/internal/invoke"
	"github.com/mattjoyce/remindctl/internal/locate"
	"github.com/mattjoyce/remindctl/internal/log"
	"github.com/mattjoyce/remindctl/internal/request"
)

//go:generate mockgen -destination=mocks/mock_runner.go -package=mocks github.com/mattjoyce/remindctl/internal/dispatch Runner

// Runner executes an argument vector and captures its output.
// *invoke.Runner is the production implementation.
type Runner interface {
	Run(ctx context.Context, argv []string) (*invoke.Result, error)
}

// Dispatcher validates requests and forwards them to external binaries.
type Dispatcher struct {
	registry *command.Registry
	locator  *locate.Locator
	runner   Runner
	pins     map[string]string
}

// New creates a Dispatcher. pins maps subcommand names to BLAKE3 digests;
// it may be nil.
func New(reg *command.Registry, loc *locate.Locator, runner Runner, pins map[string]string) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		locator:  loc,
		runner:   runner,
		pins:     pins,
	}
}

// Dispatch runs req's external binary and returns its captured result.
// Errors are classified with KindOf; ExternalCommandFailed and Timeout
// errors also carry the partial result (see CapturedOutput).
func (d *Dispatcher) Dispatch(ctx context.Context, req request.Request) (*invoke.Result, error) {
	logger := log.WithInvocation(uuid.NewString()).With(slog.String("component", "dispatch"))
	logger.Debug("dispatching", "command", req.Command(), "operation", req.Operation())

	desc, err := d.registry.Lookup(req.Command())
	if err != nil {
		return nil, err
	}
	op, err := desc.Operation(req.Operation())
	if err != nil {
		return nil, err
	}
	if err := request.Validate(req, op); err != nil {
		logger.Debug("validation failed", "error", err)
		return nil, err
	}

	if add, ok := req.(request.Add); ok && add.Ambiguous() {
		logger.Warn("both --section and --list given, using --section",
			"section", add.SectionID, "list", add.ListID)
	}

	path, err := d.locator.Locate(desc.Binary)
	if err != nil {
		logger.Debug("binary not found", "binary", desc.Binary, "searched", d.locator.Paths(desc.Binary))
		return nil, err
	}

	if pin := d.pins[desc.Name]; pin != "" {
		if err := config.VerifyFileHash(path, pin); err != nil {
			logger.Error("binary failed integrity check", "path", path, "error", err)
			return nil, &IntegrityError{Command: desc.Name, Path: path, Err: err}
		}
		logger.Debug("binary hash verified", "path", path)
	}

	argv := append([]string{path}, req.Args()...)
	logger.Info("invoking external command", "path", path, "args", len(argv)-1)

	res, err := d.runner.Run(ctx, argv)
	if err != nil {
		logger.Info("external command failed", "kind", KindOf(err).String(), "error", err)
		return res, err
	}
	logger.Debug("external command succeeded", "duration", res.Duration)
	return res, nil
}
