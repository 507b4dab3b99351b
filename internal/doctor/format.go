package doctor

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// theme centralizes styling for the human report.
type theme struct {
	OK      lipgloss.Style
	Failed  lipgloss.Style
	Warn    lipgloss.Style
	Title   lipgloss.Style
	Command lipgloss.Style
	Dim     lipgloss.Style
}

func newTheme(r *lipgloss.Renderer) theme {
	return theme{
		OK:      r.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		Failed:  r.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		Warn:    r.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#61AFEF")),
		Command: r.NewStyle().Bold(true).Width(9),
		Dim:     r.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

// FormatHuman writes a human-readable report to w. Colors are only emitted
// when w is a terminal that supports them.
func FormatHuman(w io.Writer, r *Result) error {
	th := newTheme(lipgloss.NewRenderer(w))
	var b strings.Builder

	b.WriteString(th.Title.Render("remindctl doctor"))
	b.WriteString("\n")
	if r.ConfigFile != "" {
		b.WriteString(th.Dim.Render("config: " + r.ConfigFile))
	} else {
		b.WriteString(th.Dim.Render("config: built-in defaults"))
	}
	b.WriteString("\n\n")

	for _, c := range r.Binaries {
		mark := th.OK.Render("✓")
		if !c.OK {
			mark = th.Failed.Render("✗")
		}
		fmt.Fprintf(&b, "%s %s %s\n", mark, th.Command.Render(c.Command), c.Binary)

		for _, cand := range c.Candidates {
			state := th.Dim.Render("missing")
			switch {
			case cand.Dir:
				state = th.Failed.Render("directory")
			case cand.Exists && cand.Executable:
				state = th.OK.Render("found")
			case cand.Exists:
				state = th.Failed.Render("not executable")
			}
			fmt.Fprintf(&b, "    %s %s\n", cand.Path, state)
		}

		if c.Blake3 != "" {
			line := "blake3 " + c.Blake3
			switch {
			case c.PinMatch == nil:
				line += " (unpinned)"
			case *c.PinMatch:
				line += " (pin ok)"
			}
			b.WriteString("    " + th.Dim.Render(line) + "\n")
			if c.PinMatch != nil && !*c.PinMatch {
				b.WriteString("    " + th.Failed.Render("pin    "+c.Pin) + "\n")
			}
		}
	}

	if len(r.Errors) > 0 || len(r.Warnings) > 0 {
		b.WriteString("\n")
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "  %s [%s] %s\n", th.Failed.Render("ERROR"), e.Command, e.Message)
	}
	for _, wn := range r.Warnings {
		fmt.Fprintf(&b, "  %s  [%s] %s\n", th.Warn.Render("WARN"), wn.Command, wn.Message)
	}

	b.WriteString("\n")
	if r.Valid {
		b.WriteString(th.OK.Render("All binaries OK."))
	} else {
		b.WriteString(th.Failed.Render(fmt.Sprintf("%d problem(s) found.", len(r.Errors))))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
