// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is an opaque, server-assigned task identifier.
// The remote API may encode it as a JSON string or a JSON number; both decode
// to the same textual form.
type ID string

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts string and numeric identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("invalid task id: %s", trimmed)
	}
	*id = ID(n.String())
	return nil
}

// Task represents a single task record as stored by the remote service.
type Task struct {
	ID          ID     `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Merge returns t with every non-empty field of patch written over it.
// The ID is immutable once assigned and is only taken from patch when t has none.
func (t Task) Merge(patch Task) Task {
	merged := t
	if merged.ID == "" {
		merged.ID = patch.ID
	}
	if patch.Title != "" {
		merged.Title = patch.Title
	}
	if patch.Description != "" {
		merged.Description = patch.Description
	}
	return merged
}

// Draft holds the user-edited, unsaved fields of a task.
// It is also the JSON body of create and update requests.
type Draft struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// IsEmpty reports whether both fields are blank.
func (d Draft) IsEmpty() bool {
	return strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.Description) == ""
}

// MissingFields returns the names of fields that are empty after trimming.
func (d Draft) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "description")
	}
	return missing
}

// DraftFrom copies the editable fields of a task into a draft.
func DraftFrom(t Task) Draft {
	return Draft{Title: t.Title, Description: t.Description}
}

// Status is the outcome reported inside a response envelope.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Envelope is the uniform {status, message, data} wrapper every API response follows.
type Envelope[T any] struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// OK reports whether the envelope carries a SUCCESS status.
func (e Envelope[T]) OK() bool {
	return strings.EqualFold(string(e.Status), string(StatusSuccess))
}
