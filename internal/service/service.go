// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Operation names, used for error context and logging.
const (
	OpList   = "list"
	OpCreate = "create"
	OpGet    = "get"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Service defines the interface for task backend operations.
// All remote Task API calls go through this interface.
// The workflow and commands never build HTTP requests directly.
//
// A returned error means the call did not produce an envelope (transport or
// protocol failure). An envelope with a FAILURE status is returned with a nil
// error; interpreting it is the caller's job.
type Service interface {
	// List returns every task in the remote collection.
	List(ctx context.Context) (Envelope[[]Task], error)

	// Create asks the server to create a task from draft.
	Create(ctx context.Context, draft Draft) (Envelope[Task], error)

	// Get fetches a single task. By API convention Data is a one-element list.
	Get(ctx context.Context, id ID) (Envelope[[]Task], error)

	// Update overwrites the fields of task id with draft.
	// The returned Data may omit fields that did not change.
	Update(ctx context.Context, id ID, draft Draft) (Envelope[Task], error)

	// Delete removes task id. Data is null.
	Delete(ctx context.Context, id ID) (Envelope[any], error)
}

// ServerMessager is implemented by errors that carry a human-readable message
// sent by the server alongside a failed response.
type ServerMessager interface {
	ServerMessage() string
}

// NotFounder is implemented by errors that report the requested task does
// not exist on the server.
type NotFounder interface {
	NotFound() bool
}
