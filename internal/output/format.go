// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"taskctl/internal/service"
)

// Format selects how tasks are rendered.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat resolves a format name. The empty string means Text.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", Text:
		return Text, nil
	case JSON:
		return JSON, nil
	case YAML:
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", name)
	}
}

// FormatTask formats a task line.
// Format: "{ID:>4}  {TITLE}\n" followed by "      {DESCRIPTION}\n" when set.
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4s  %s\n", task.ID, normalizeTitle(task.Title))
	if desc := normalizeDescription(task.Description); desc != "" {
		fmt.Fprintf(w, "      %s\n", desc)
	}
}

// WriteTasks renders a task collection.
func WriteTasks(w io.Writer, format Format, tasks []service.Task) error {
	if tasks == nil {
		tasks = []service.Task{}
	}
	switch format {
	case JSON:
		return writeJSON(w, tasks)
	case YAML:
		return writeYAML(w, tasks)
	default:
		for _, task := range tasks {
			FormatTask(w, task)
		}
		return nil
	}
}

// WriteTask renders a single task.
func WriteTask(w io.Writer, format Format, task service.Task) error {
	switch format {
	case JSON:
		return writeJSON(w, task)
	case YAML:
		return writeYAML(w, task)
	default:
		fmt.Fprintf(w, "id:          %s\n", task.ID)
		fmt.Fprintf(w, "title:       %s\n", normalizeTitle(task.Title))
		fmt.Fprintf(w, "description: %s\n", normalizeDescription(task.Description))
		return nil
	}
}

// DraftView is the form as shown by the shell's draft command.
type DraftView struct {
	Mode   string        `json:"mode" yaml:"mode"`
	Target service.ID    `json:"target,omitempty" yaml:"target,omitempty"`
	Draft  service.Draft `json:"draft" yaml:"draft"`
}

// WriteDraft renders the unsaved form.
func WriteDraft(w io.Writer, format Format, view DraftView) error {
	switch format {
	case JSON:
		return writeJSON(w, view)
	case YAML:
		return writeYAML(w, view)
	default:
		if view.Target != "" {
			fmt.Fprintf(w, "%s %s\n", view.Mode, view.Target)
		} else {
			fmt.Fprintln(w, view.Mode)
		}
		fmt.Fprintf(w, "  title:       %s\n", view.Draft.Title)
		fmt.Fprintf(w, "  description: %s\n", view.Draft.Description)
		return nil
	}
}

// WriteSettings renders effective settings. Text output is YAML.
func WriteSettings(w io.Writer, format Format, settings any) error {
	if format == JSON {
		return writeJSON(w, settings)
	}
	return writeYAML(w, settings)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func normalizeDescription(desc string) string {
	return strings.TrimSpace(flatten(desc))
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
