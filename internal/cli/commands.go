package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mattjoyce/remindctl/internal/command"
	"github.com/mattjoyce/remindctl/internal/doctor"
	"github.com/mattjoyce/remindctl/internal/request"
)

func (c *CLI) newAddCmd(reg *command.Registry) *cobra.Command {
	var section, list string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: short(reg, "add"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.forward(cmd, request.Add{Title: args[0], SectionID: section, ListID: list})
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "Section ID to add the reminder to (alias --section-id)")
	cmd.Flags().StringVar(&list, "list", "", "List ID to add the reminder to (alias --list-id)")
	cmd.Flags().SetNormalizeFunc(aliases(map[string]string{
		"section-id": "section",
		"list-id":    "list",
	}))
	return cmd
}

func (c *CLI) newSectionCmd(reg *command.Registry) *cobra.Command {
	var f request.SectionFields

	cmd := &cobra.Command{
		Use:       "section <operation>",
		Short:     short(reg, "section"),
		Long:      long(reg, "section"),
		Args:      cobra.ExactArgs(1),
		ValidArgs: operationNames(reg, "section"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := request.NewSection(args[0], f)
			if err != nil {
				return err
			}
			return c.forward(cmd, req)
		},
	}
	cmd.Flags().StringVar(&f.ListID, "list-id", "", "List ID")
	cmd.Flags().StringVar(&f.SectionID, "section-id", "", "Section ID")
	cmd.Flags().StringVar(&f.DisplayName, "display-name", "", "Section display name")
	return cmd
}

func (c *CLI) newSubtaskCmd(reg *command.Registry) *cobra.Command {
	var f request.SubtaskFields

	cmd := &cobra.Command{
		Use:       "subtask <operation>",
		Short:     short(reg, "subtask"),
		Long:      long(reg, "subtask"),
		Args:      cobra.ExactArgs(1),
		ValidArgs: operationNames(reg, "subtask"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := request.NewSubtask(args[0], f)
			if err != nil {
				return err
			}
			return c.forward(cmd, req)
		},
	}
	cmd.Flags().StringVar(&f.ParentID, "parent-id", "", "Parent reminder ID")
	cmd.Flags().StringVar(&f.SubtaskID, "subtask-id", "", "Subtask ID")
	cmd.Flags().StringVar(&f.Title, "title", "", "Subtask title")
	cmd.Flags().StringVar(&f.NewTitle, "new-title", "", "New subtask title (update)")
	return cmd
}

func (c *CLI) newDoctorCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that every external binary can be found and run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := doctor.New(c.registry, c.locator, c.cfg.Pins(), c.cfg.SourceFile).Run()

			if jsonOut {
				out, err := doctor.FormatJSON(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			} else if err := doctor.FormatHuman(cmd.OutOrStdout(), result); err != nil {
				return err
			}

			if !result.Valid {
				return &exitCodeError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// forward dispatches req and relays the child's output on success.
func (c *CLI) forward(cmd *cobra.Command, req request.Request) error {
	res, err := c.dispatcher.Dispatch(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
	if res.Stderr != "" {
		fmt.Fprint(cmd.ErrOrStderr(), res.Stderr)
	}
	return nil
}

// aliases maps alternate flag names onto their canonical form.
func aliases(m map[string]string) func(*pflag.FlagSet, string) pflag.NormalizedName {
	return func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if canonical, ok := m[name]; ok {
			name = canonical
		}
		return pflag.NormalizedName(name)
	}
}

func short(reg *command.Registry, name string) string {
	d, err := reg.Lookup(name)
	if err != nil {
		return ""
	}
	return d.Description
}

func operationNames(reg *command.Registry, name string) []string {
	d, err := reg.Lookup(name)
	if err != nil {
		return nil
	}
	return d.OperationNames()
}

func long(reg *command.Registry, name string) string {
	d, err := reg.Lookup(name)
	if err != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(d.Description)
	b.WriteString(".\n\nOperations:\n")
	for _, op := range d.Operations {
		fmt.Fprintf(&b, "  %-8s %s", op.Name, op.Description)
		if len(op.Required) > 0 {
			fmt.Fprintf(&b, " (requires --%s)", strings.Join(op.Required, ", --"))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
