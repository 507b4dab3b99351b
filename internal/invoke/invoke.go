package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"golang.org/x/term"

	"github.com/mattjoyce/remindctl/internal/log"
)

const (
	// DefaultTimeout bounds a single external command.
	DefaultTimeout = 60 * time.Second

	// DefaultGracePeriod is the time we wait after SIGTERM before sending SIGKILL.
	DefaultGracePeriod = 5 * time.Second
)

// Result is the captured outcome of one external command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// ExitError is returned when the command ran and exited non-zero.
type ExitError struct {
	Path   string
	Result *Result
	state  string
}

func (e *ExitError) Error() string {
	name := filepath.Base(e.Path)
	if e.Result.ExitCode < 0 {
		return fmt.Sprintf("%s terminated: %s", name, e.state)
	}
	return fmt.Sprintf("%s exited with status %d", name, e.Result.ExitCode)
}

// ExecError is returned when the command could not be run at all.
type ExecError struct {
	Path string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("failed to execute %s: %v", e.Path, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// TimeoutError is returned when the command was stopped before it finished,
// either because the timeout expired or the context was cancelled.
type TimeoutError struct {
	Path    string
	Timeout time.Duration
	Result  *Result // output captured before termination
	Err     error   // context.DeadlineExceeded or context.Canceled
}

func (e *TimeoutError) Error() string {
	name := filepath.Base(e.Path)
	if errors.Is(e.Err, context.Canceled) {
		return fmt.Sprintf("%s interrupted", name)
	}
	return fmt.Sprintf("%s timed out after %v", name, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Options configures a Runner. Zero Timeout disables the bound.
type Options struct {
	Timeout     time.Duration
	GracePeriod time.Duration
	// Stdin is handed to every child. Nil means the null device.
	Stdin io.Reader
}

// Runner executes external commands synchronously.
type Runner struct {
	timeout time.Duration
	grace   time.Duration
	stdin   io.Reader
	logger  *slog.Logger
}

// New creates a Runner.
func New(opts Options) *Runner {
	grace := opts.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Runner{
		timeout: opts.Timeout,
		grace:   grace,
		stdin:   opts.Stdin,
		logger:  log.WithComponent("invoke"),
	}
}

// Run executes argv[0] with argv[1:], waits for it and captures its output.
func (r *Runner) Run(ctx context.Context, argv []string) (*Result, error) {
	if len(argv) == 0 {
		return nil, &ExecError{Err: errors.New("empty argument vector")}
	}
	path := argv[0]

	// Don't use CommandContext - we manage termination ourselves.
	cmd := exec.Command(path, argv[1:]...)
	cmd.Stdin = r.stdin
	// Output is relayed verbatim, so neither stream is capped.
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Bound the wait for pipe copies if a grandchild keeps them open.
	cmd.WaitDelay = r.grace

	// A child in a background process group is stopped by SIGTTIN when it
	// reads the terminal, so interactive children share ours and only the
	// child itself is signalled on timeout.
	group := !isTerminal(r.stdin)
	if group {
		setProcessGroup(cmd)
	}

	r.logger.Debug("spawning command", "argv", argv, "timeout", r.timeout, "process_group", group)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &ExecError{Path: path, Err: err}
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
	}()

	var timeoutC <-chan time.Time
	if r.timeout > 0 {
		timer := time.NewTimer(r.timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	result := func() *Result {
		return &Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: cmd.ProcessState.ExitCode(),
			Duration: time.Since(start),
		}
	}

	select {
	case <-timeoutC:
		r.logger.Warn("command timed out, sending SIGTERM", "path", path, "timeout", r.timeout)
		r.terminate(cmd, waitErr, group)
		res := result()
		return res, &TimeoutError{Path: path, Timeout: r.timeout, Result: res, Err: context.DeadlineExceeded}

	case <-ctx.Done():
		r.logger.Warn("context done, sending SIGTERM", "path", path, "error", ctx.Err())
		r.terminate(cmd, waitErr, group)
		res := result()
		return res, &TimeoutError{Path: path, Timeout: r.timeout, Result: res, Err: ctx.Err()}

	case err := <-waitErr:
		res := result()
		if errors.Is(err, exec.ErrWaitDelay) {
			// Exited 0 but a descendant held the output pipes open.
			r.logger.Warn("output pipes closed after wait delay", "path", path)
			err = nil
		}
		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return res, &ExecError{Path: path, Err: fmt.Errorf("wait for process: %w", err)}
			}
			r.logger.Info("command exited with non-zero status", "path", path, "exit_code", res.ExitCode)
			return res, &ExitError{Path: path, Result: res, state: exitErr.String()}
		}
		r.logger.Debug("command completed", "path", path, "duration", res.Duration)
		return res, nil
	}
}

// terminate sends SIGTERM, waits for the grace period, then SIGKILL.
// It returns once the process has been reaped.
func (r *Runner) terminate(cmd *exec.Cmd, waitErr <-chan error, group bool) {
	if err := signalTerminate(cmd, group); err != nil {
		r.logger.Error("failed to send SIGTERM", "error", err)
	}

	grace := time.NewTimer(r.grace)
	defer grace.Stop()

	select {
	case <-waitErr:
		r.logger.Info("command exited after SIGTERM")
	case <-grace.C:
		r.logger.Warn("command did not exit after SIGTERM, sending SIGKILL")
		if err := signalKill(cmd, group); err != nil {
			r.logger.Error("failed to send SIGKILL", "error", err)
		}
		<-waitErr
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
