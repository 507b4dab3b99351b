// Package cli implements the remindctl command tree on top of cobra.
//
// Commands build a request.Request from their flags and hand it to the
// dispatcher; this package is the only place that turns errors into
// output and exit codes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/remindctl/internal/command"
	"github.com/mattjoyce/remindctl/internal/config"
	"github.com/mattjoyce/remindctl/internal/dispatch"
	"github.com/mattjoyce/remindctl/internal/invoke"
	"github.com/mattjoyce/remindctl/internal/locate"
	"github.com/mattjoyce/remindctl/internal/log"
)

// CLI holds per-process state shared by all subcommands.
type CLI struct {
	version    string
	executable string
	stdin      io.Reader

	// flags
	configPath string
	verbosity  int

	// set in setup
	cfg        *config.Config
	registry   *command.Registry
	locator    *locate.Locator
	dispatcher *dispatch.Dispatcher
}

// New creates a CLI. executable is the path of the running remindctl
// binary; binaries are searched for relative to it.
func New(version, executable string) *CLI {
	return &CLI{version: version, executable: executable}
}

// exitCodeError ends the run with a status and no further output.
type exitCodeError struct{ code int }

func (e *exitCodeError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Run executes args and returns the process exit status. stdin is passed
// through to the external binary.
func (c *CLI) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c.stdin = stdin
	root := c.rootCommand()
	root.SetIn(stdin)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitCode *exitCodeError
	if errors.As(err, &exitCode) {
		return exitCode.code
	}

	// Unknown subcommands get usage rather than an error line.
	var unknown *command.UnknownCommandError
	if errors.As(err, &unknown) && unknown.Operation == "" {
		fmt.Fprint(stderr, root.UsageString())
		fmt.Fprintf(stderr, "\n%s: %v\n", root.Name(), err)
		return 1
	}

	// Failed or timed-out children still get their output relayed.
	if res, ok := dispatch.CapturedOutput(err); ok {
		fmt.Fprint(stdout, res.Stdout)
		fmt.Fprint(stderr, res.Stderr)
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func (c *CLI) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "remindctl",
		Short:         "Manage reminders, sections and subtasks via external helpers",
		Version:       c.version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &command.UnknownCommandError{Name: args[0]}
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd == cmd.Root() || cmd.Name() == "help" {
				return nil
			}
			return c.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	root.CompletionOptions.DisableDefaultCmd = true

	// CountVarP increments verbosity each time -v is passed: -v=1, -vv=2
	root.PersistentFlags().CountVarP(&c.verbosity, "verbose", "v", "Verbosity: -v info, -vv debug")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to remindctl.yaml")

	// Help text only; the registry is rebuilt with overrides in setup.
	reg := command.Default()
	root.AddCommand(
		c.newAddCmd(reg),
		c.newSectionCmd(reg),
		c.newSubtaskCmd(reg),
		c.newDoctorCmd(),
	)
	return root
}

// setup loads configuration and wires the dispatch pipeline.
func (c *CLI) setup(stderr io.Writer) error {
	installRoot, fallbackDir, rootsErr := locate.DefaultRoots(c.executable)

	configFile, err := config.Discover(c.configPath, fallbackDir)
	if err != nil {
		return err
	}
	cfg := config.Defaults()
	if configFile != "" {
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
	}
	c.cfg = cfg

	level := log.LevelForVerbosity(log.ParseLevel(cfg.Log.Level), c.verbosity)
	log.Setup(level, cfg.Log.Format, stderr)
	logger := log.WithComponent("cli")

	if cfg.Paths.InstallRoot != "" {
		installRoot, fallbackDir = cfg.Paths.InstallRoot, cfg.Paths.FallbackDir
	} else if rootsErr != nil {
		return fmt.Errorf("cannot determine install location: %w", rootsErr)
	}

	c.locator, err = locate.New(installRoot, fallbackDir)
	if err != nil {
		return err
	}
	c.registry, err = command.Default().WithBinaries(cfg.BinaryOverrides())
	if err != nil {
		return err
	}

	runner := invoke.New(invoke.Options{
		Timeout:     cfg.Exec.Timeout,
		GracePeriod: cfg.Exec.GracePeriod,
		Stdin:       c.stdin,
	})
	c.dispatcher = dispatch.New(c.registry, c.locator, runner, cfg.Pins())

	logger.Debug("configured",
		"config", configFile,
		"install_root", installRoot,
		"fallback_dir", fallbackDir,
		"timeout", cfg.Exec.Timeout)
	return nil
}
