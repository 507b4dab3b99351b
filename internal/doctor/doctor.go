// Package doctor checks that every external binary remindctl forwards to
// can be found, executed and (when pinned) verified.
package doctor

import (
	"encoding/json"
	"fmt"

	"github.com/mattjoyce/remindctl/internal/command"
	"github.com/mattjoyce/remindctl/internal/config"
	"github.com/mattjoyce/remindctl/internal/locate"
)

// Result holds the outcome of a doctor run.
type Result struct {
	Valid      bool          `json:"valid"`
	ConfigFile string        `json:"config_file,omitempty"`
	Binaries   []BinaryCheck `json:"binaries"`
	Errors     []Issue       `json:"errors,omitempty"`
	Warnings   []Issue       `json:"warnings,omitempty"`
}

// Issue describes a single error or warning.
type Issue struct {
	Command string `json:"command"`
	Message string `json:"message"`
}

// BinaryCheck is the report for one subcommand's binary.
type BinaryCheck struct {
	Command    string             `json:"command"`
	Binary     string             `json:"binary"`
	Candidates []locate.Candidate `json:"candidates"`
	Resolved   string             `json:"resolved,omitempty"`
	Filesystem string             `json:"filesystem,omitempty"`
	Blake3     string             `json:"blake3,omitempty"`
	Pin        string             `json:"pin,omitempty"`
	PinMatch   *bool              `json:"pin_match,omitempty"`
	OK         bool               `json:"ok"`
}

// Doctor probes binaries for every registered subcommand.
type Doctor struct {
	registry   *command.Registry
	locator    *locate.Locator
	pins       map[string]string
	configFile string
	detect     mountDetector
}

// New creates a Doctor. configFile is only reported, never read.
func New(reg *command.Registry, loc *locate.Locator, pins map[string]string, configFile string) *Doctor {
	return &Doctor{registry: reg, locator: loc, pins: pins, configFile: configFile, detect: detectMount}
}

// Run checks every binary and returns a result. It never spawns anything.
func (d *Doctor) Run() *Result {
	r := &Result{ConfigFile: d.configFile}

	for _, name := range d.registry.Names() {
		desc, err := d.registry.Lookup(name)
		if err != nil {
			continue
		}
		r.Binaries = append(r.Binaries, d.check(r, desc))
	}

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) check(r *Result, desc *command.Descriptor) BinaryCheck {
	c := BinaryCheck{
		Command:    desc.Name,
		Binary:     desc.Binary,
		Candidates: d.locator.Probe(desc.Binary),
		Pin:        config.NormalizePin(d.pins[desc.Name]),
	}

	var resolved *locate.Candidate
	for i := range c.Candidates {
		if !c.Candidates[i].Exists {
			continue
		}
		if resolved == nil {
			resolved = &c.Candidates[i]
			continue
		}
		addWarning(r, desc.Name, fmt.Sprintf("%s shadows %s", resolved.Path, c.Candidates[i].Path))
	}

	if resolved == nil {
		addError(r, desc.Name, fmt.Sprintf("%s not found in any search location", desc.Binary))
		return c
	}
	c.Resolved = resolved.Path

	if resolved.Dir {
		addError(r, desc.Name, fmt.Sprintf("%s is a directory", resolved.Path))
		return c
	}
	if !resolved.Executable {
		addError(r, desc.Name, fmt.Sprintf("%s is not executable", resolved.Path))
	}

	runnable := resolved.Executable
	if mi, err := d.detect(resolved.Path); err == nil {
		c.Filesystem = mi.FSType
		if mi.NoExec {
			runnable = false
			addError(r, desc.Name, fmt.Sprintf("%s is on a noexec mount", resolved.Path))
		}
		if isNetworkFilesystem(mi.FSType) {
			addWarning(r, desc.Name, fmt.Sprintf("%s is on network filesystem %q", resolved.Path, mi.FSType))
		}
	}

	hash, err := config.ComputeBlake3Hash(resolved.Path)
	if err != nil {
		addError(r, desc.Name, fmt.Sprintf("cannot hash %s: %v", resolved.Path, err))
		return c
	}
	c.Blake3 = hash

	if c.Pin != "" {
		match := c.Pin == hash
		c.PinMatch = &match
		if !match {
			addError(r, desc.Name, fmt.Sprintf("hash mismatch for %s: expected %s, got %s", desc.Binary, c.Pin, hash))
		}
	}

	c.OK = runnable && (c.PinMatch == nil || *c.PinMatch)
	return c
}

func addError(r *Result, cmd, msg string) {
	r.Errors = append(r.Errors, Issue{Command: cmd, Message: msg})
}

func addWarning(r *Result, cmd, msg string) {
	r.Warnings = append(r.Warnings, Issue{Command: cmd, Message: msg})
}

// FormatJSON returns the result as indented JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
