// Package request defines one Go type per remindctl subcommand/operation.
//
// Each variant carries only the fields that are legal for its operation and
// knows how to render the positional argument vector its external binary
// expects. The Request interface is sealed; the set of variants is closed.
package request

import "github.com/mattjoyce/remindctl/internal/command"

// Request is a parsed invocation of one subcommand operation.
type Request interface {
	// Command is the subcommand name (add, section, subtask).
	Command() string
	// Operation is the operation name; for add it is "add".
	Operation() string
	// Fields maps flag names to values for required-field checks.
	Fields() map[string]string
	// Args is the argument vector passed after the executable path.
	Args() []string

	sealed()
}

// Add adds a reminder to a section or list.
type Add struct {
	Title     string
	SectionID string
	ListID    string
}

// SectionCreate creates a section in a list.
type SectionCreate struct{ ListID, DisplayName string }

// SectionList lists sections, optionally restricted to one list.
type SectionList struct{ ListID string }

// SectionUpdate renames a section.
type SectionUpdate struct{ SectionID, DisplayName string }

// SectionDelete deletes a section.
type SectionDelete struct{ SectionID string }

// SectionLists lists the available reminder lists.
type SectionLists struct{}

// SubtaskCreate creates a subtask under a parent reminder.
type SubtaskCreate struct{ ParentID, Title string }

// SubtaskList lists the subtasks of a parent reminder.
type SubtaskList struct{ ParentID string }

// SubtaskUpdate changes a subtask. An empty NewTitle is omitted from Args.
type SubtaskUpdate struct{ SubtaskID, NewTitle string }

// SubtaskDelete deletes a subtask.
type SubtaskDelete struct{ SubtaskID string }

func (Add) Command() string { return "add" }
func (Add) Operation() string { return "add" }
func (r Add) Fields() map[string]string {
	return map[string]string{"title": r.Title, "section": r.SectionID, "list": r.ListID}
}

// Args prefers the section when both targets are set.
func (r Add) Args() []string {
	args := []string{"add", r.Title}
	switch {
	case r.SectionID != "":
		args = append(args, "--section", r.SectionID)
	case r.ListID != "":
		args = append(args, "--list", r.ListID)
	}
	return args
}

// Ambiguous reports whether both a section and a list were given.
func (r Add) Ambiguous() bool { return r.SectionID != "" && r.ListID != "" }

func (SectionCreate) Command() string { return "section" }
func (SectionCreate) Operation() string { return "create" }
func (r SectionCreate) Fields() map[string]string {
	return map[string]string{"list-id": r.ListID, "display-name": r.DisplayName}
}
func (r SectionCreate) Args() []string { return []string{"create", r.ListID, r.DisplayName} }

func (SectionList) Command() string { return "section" }
func (SectionList) Operation() string { return "list" }
func (r SectionList) Fields() map[string]string {
	return map[string]string{"list-id": r.ListID}
}
func (r SectionList) Args() []string { return appendIfSet([]string{"list"}, r.ListID) }

func (SectionUpdate) Command() string { return "section" }
func (SectionUpdate) Operation() string { return "update" }
func (r SectionUpdate) Fields() map[string]string {
	return map[string]string{"section-id": r.SectionID, "display-name": r.DisplayName}
}
func (r SectionUpdate) Args() []string { return []string{"update", r.SectionID, r.DisplayName} }

func (SectionDelete) Command() string { return "section" }
func (SectionDelete) Operation() string { return "delete" }
func (r SectionDelete) Fields() map[string]string {
	return map[string]string{"section-id": r.SectionID}
}
func (r SectionDelete) Args() []string { return []string{"delete", r.SectionID} }

func (SectionLists) Command() string { return "section" }
func (SectionLists) Operation() string { return "lists" }
func (SectionLists) Fields() map[string]string { return map[string]string{} }
func (SectionLists) Args() []string { return []string{"lists"} }

func (SubtaskCreate) Command() string { return "subtask" }
func (SubtaskCreate) Operation() string { return "create" }
func (r SubtaskCreate) Fields() map[string]string {
	return map[string]string{"parent-id": r.ParentID, "title": r.Title}
}
func (r SubtaskCreate) Args() []string { return []string{"create", r.ParentID, r.Title} }

func (SubtaskList) Command() string { return "subtask" }
func (SubtaskList) Operation() string { return "list" }
func (r SubtaskList) Fields() map[string]string {
	return map[string]string{"parent-id": r.ParentID}
}
func (r SubtaskList) Args() []string { return []string{"list", r.ParentID} }

func (SubtaskUpdate) Command() string { return "subtask" }
func (SubtaskUpdate) Operation() string { return "update" }
func (r SubtaskUpdate) Fields() map[string]string {
	return map[string]string{"subtask-id": r.SubtaskID, "new-title": r.NewTitle}
}
func (r SubtaskUpdate) Args() []string {
	return appendIfSet([]string{"update", r.SubtaskID}, r.NewTitle)
}

func (SubtaskDelete) Command() string { return "subtask" }
func (SubtaskDelete) Operation() string { return "delete" }
func (r SubtaskDelete) Fields() map[string]string {
	return map[string]string{"subtask-id": r.SubtaskID}
}
func (r SubtaskDelete) Args() []string { return []string{"delete", r.SubtaskID} }

func (Add) sealed() {}
func (SectionCreate) sealed() {}
func (SectionList) sealed() {}
func (SectionUpdate) sealed() {}
func (SectionDelete) sealed() {}
func (SectionLists) sealed() {}
func (SubtaskCreate) sealed() {}
func (SubtaskList) sealed() {}
func (SubtaskUpdate) sealed() {}
func (SubtaskDelete) sealed() {}

// SectionFields holds every flag the section subcommand accepts.
type SectionFields struct {
	ListID      string
	SectionID   string
	DisplayName string
}

// NewSection selects the section variant for op.
func NewSection(op string, f SectionFields) (Request, error) {
	switch op {
	case "create":
		return SectionCreate{ListID: f.ListID, DisplayName: f.DisplayName}, nil
	case "list":
		return SectionList{ListID: f.ListID}, nil
	case "update":
		return SectionUpdate{SectionID: f.SectionID, DisplayName: f.DisplayName}, nil
	case "delete":
		return SectionDelete{SectionID: f.SectionID}, nil
	case "lists":
		return SectionLists{}, nil
	default:
		return nil, &command.UnknownCommandError{Name: "section", Operation: op}
	}
}

// SubtaskFields holds every flag the subtask subcommand accepts.
type SubtaskFields struct {
	ParentID  string
	SubtaskID string
	Title     string
	NewTitle  string
}

// NewSubtask selects the subtask variant for op.
func NewSubtask(op string, f SubtaskFields) (Request, error) {
	switch op {
	case "create":
		return SubtaskCreate{ParentID: f.ParentID, Title: f.Title}, nil
	case "list":
		return SubtaskList{ParentID: f.ParentID}, nil
	case "update":
		return SubtaskUpdate{SubtaskID: f.SubtaskID, NewTitle: f.NewTitle}, nil
	case "delete":
		return SubtaskDelete{SubtaskID: f.SubtaskID}, nil
	default:
		return nil, &command.UnknownCommandError{Name: "subtask", Operation: op}
	}
}

func appendIfSet(args []string, v string) []string {
	if v != "" {
		args = append(args, v)
	}
	return args
}
