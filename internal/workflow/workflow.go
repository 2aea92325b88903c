// Package workflow keeps a local view of the remote task collection in sync
// with the Task API and drives the single-record edit form.
//
// A Workflow is not safe for concurrent use. Each user action issues at most
// one call and the state is only changed after that call returns. Overlapping
// mutations against the same task are not reconciled: the last response to
// arrive wins.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taskctl/internal/service"
)

// User-facing notification texts.
const (
	MsgFillAllFields = "Please fill out all fields."
	MsgCreated       = "Task created successfully!"
	MsgUpdated       = "Task updated successfully!"
	MsgDeleted       = "Task deleted successfully!"
	MsgSubmitError   = "Something went wrong. Please try again."
	MsgDeleteFailed  = "Failed to delete the task."
	MsgDeleteError   = "An error occurred while deleting the task."
	MsgNotFound      = "Task not found."
	MsgFetchError    = "Failed to fetch task details."
	MsgLoadFailed    = "Failed to load tasks."
)

// Notifier is the transient, user-visible message channel.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Workflow owns the form and list state and reconciles it with the server.
type Workflow struct {
	svc        service.Service
	notify     Notifier
	logger     *zap.Logger
	state      State
	submitting bool
}

// New creates a Workflow in the Idle phase with an empty collection.
// A nil logger discards log output.
func New(svc service.Service, notifier Notifier, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		svc:    svc,
		notify: notifier,
		logger: logger.Named("workflow"),
	}
}

// State returns a snapshot of the current state.
func (w *Workflow) State() State { return w.state.clone() }

// Tasks returns a copy of the local collection.
func (w *Workflow) Tasks() []service.Task { return w.state.clone().Tasks }

// Draft returns the current draft.
func (w *Workflow) Draft() service.Draft { return w.state.Draft }

// Session returns the current edit session.
func (w *Workflow) Session() EditSession { return w.state.Session }

// Phase reports where the form is in its lifecycle.
func (w *Workflow) Phase() Phase {
	if w.submitting {
		return PhaseSubmitting
	}
	return w.state.Phase()
}

// Initialize replaces the local collection with the server's.
// On failure the collection is left as it was.
func (w *Workflow) Initialize(ctx context.Context) error {
	env, err := w.svc.List(ctx)
	if err != nil {
		w.logger.Debug("failed to fetch tasks", zap.Error(err))
		w.notify.Error(messageFor(err, MsgLoadFailed))
		return fmt.Errorf("load tasks: %w", err)
	}
	if !env.OK() {
		failure := &ApplicationFailure{Op: service.OpList, Message: env.Message}
		w.logger.Debug("failed to fetch tasks", zap.Error(failure))
		w.notify.Error(orDefault(env.Message, MsgLoadFailed))
		return failure
	}

	tasks := make([]service.Task, len(env.Data))
	copy(tasks, env.Data)
	w.state.Tasks = tasks

	if w.state.Session.Active && w.state.indexOf(w.state.Session.TargetID) < 0 {
		w.logger.Debug("edited task disappeared, resetting form",
			zap.String("id", w.state.Session.TargetID.String()))
		w.state.resetForm()
	}
	return nil
}

// Lookup fetches a single task by id. Failures are notified.
func (w *Workflow) Lookup(ctx context.Context, id service.ID) (service.Task, error) {
	env, err := w.svc.Get(ctx, id)
	if err != nil {
		w.logger.Debug("failed to fetch task", zap.String("id", id.String()), zap.Error(err))
		if isNotFound(err) {
			w.notify.Error(messageFor(err, MsgNotFound))
			return service.Task{}, fmt.Errorf("%w: %s: %w", ErrTaskNotFound, id, err)
		}
		w.notify.Error(messageFor(err, MsgFetchError))
		return service.Task{}, fmt.Errorf("fetch task %s: %w", id, err)
	}
	if !env.OK() {
		w.notify.Error(orDefault(env.Message, MsgNotFound))
		failure := &ApplicationFailure{Op: service.OpGet, Message: env.Message}
		return service.Task{}, fmt.Errorf("%w: %s: %w", ErrTaskNotFound, id, failure)
	}
	if len(env.Data) == 0 {
		w.notify.Error(MsgNotFound)
		return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	task := env.Data[0]
	if task.ID == "" {
		task.ID = id
	}
	return task, nil
}

// BeginEdit loads task id into the draft and switches to update mode.
// On failure the draft and session are left unchanged.
func (w *Workflow) BeginEdit(ctx context.Context, id service.ID) error {
	task, err := w.Lookup(ctx, id)
	if err != nil {
		return err
	}
	w.state.Draft = service.DraftFrom(task)
	w.state.Session = EditSession{Active: true, TargetID: task.ID}
	return nil
}

// SetTitle replaces the draft title.
func (w *Workflow) SetTitle(title string) { w.state.Draft.Title = title }

// SetDescription replaces the draft description.
func (w *Workflow) SetDescription(description string) { w.state.Draft.Description = description }

// SetField sets a draft field by name ("title" or "description").
func (w *Workflow) SetField(name, value string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "title":
		w.SetTitle(value)
	case "description", "desc":
		w.SetDescription(value)
	default:
		return fmt.Errorf("unknown field: %s", name)
	}
	return nil
}

// Reset discards the draft and leaves update mode.
func (w *Workflow) Reset() { w.state.resetForm() }

// Submit sends the draft to the server, creating or updating depending on
// the edit session, and returns the task as it now appears locally.
//
// Both fields must be non-blank. Any failure keeps the draft and session so
// the user can retry.
func (w *Workflow) Submit(ctx context.Context) (service.Task, error) {
	draft := w.state.Draft
	if missing := draft.MissingFields(); len(missing) > 0 {
		w.notify.Error(MsgFillAllFields)
		return service.Task{}, &ValidationError{Missing: missing}
	}

	w.submitting = true
	defer func() { w.submitting = false }()

	if w.state.Session.Active {
		return w.submitUpdate(ctx, w.state.Session.TargetID, draft)
	}
	return w.submitCreate(ctx, draft)
}

func (w *Workflow) submitCreate(ctx context.Context, draft service.Draft) (service.Task, error) {
	env, err := w.svc.Create(ctx, draft)
	if err != nil {
		w.logger.Debug("failed to create task", zap.Error(err))
		w.notify.Error(messageFor(err, MsgSubmitError))
		return service.Task{}, fmt.Errorf("create task: %w", err)
	}
	if !env.OK() {
		w.notify.Error(orDefault(env.Message, MsgSubmitError))
		return service.Task{}, &ApplicationFailure{Op: service.OpCreate, Message: env.Message}
	}

	task := env.Data
	w.state.Tasks = append(w.state.Tasks, task)
	w.state.resetForm()
	w.notify.Success(orDefault(env.Message, MsgCreated))
	return task, nil
}

func (w *Workflow) submitUpdate(ctx context.Context, id service.ID, draft service.Draft) (service.Task, error) {
	env, err := w.svc.Update(ctx, id, draft)
	if err != nil {
		w.logger.Debug("failed to update task", zap.String("id", id.String()), zap.Error(err))
		w.notify.Error(messageFor(err, MsgSubmitError))
		return service.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	if !env.OK() {
		w.notify.Error(orDefault(env.Message, MsgSubmitError))
		return service.Task{}, &ApplicationFailure{Op: service.OpUpdate, Message: env.Message}
	}

	var task service.Task
	if i := w.state.indexOf(id); i >= 0 {
		w.state.Tasks[i] = w.state.Tasks[i].Merge(env.Data)
		task = w.state.Tasks[i]
	} else {
		// Not in the local list (it was never loaded); report what the server holds.
		task = service.Task{ID: id, Title: draft.Title, Description: draft.Description}.Merge(env.Data)
	}

	w.state.resetForm()
	w.notify.Success(MsgUpdated)
	return task, nil
}

// Delete removes task id on the server and then locally. Deleting the task
// that is open in the form resets the form.
func (w *Workflow) Delete(ctx context.Context, id service.ID) error {
	env, err := w.svc.Delete(ctx, id)
	if err != nil {
		w.logger.Debug("failed to delete task", zap.String("id", id.String()), zap.Error(err))
		w.notify.Error(messageFor(err, MsgDeleteError))
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if !env.OK() {
		w.notify.Error(orDefault(env.Message, MsgDeleteFailed))
		return &ApplicationFailure{Op: service.OpDelete, Message: env.Message}
	}

	w.state.removeAll(id)
	if w.state.Session.Active && w.state.Session.TargetID == id {
		w.state.resetForm()
	}
	w.notify.Success(MsgDeleted)
	return nil
}

// messageFor prefers a message the server sent with a failed response.
func messageFor(err error, fallback string) string {
	var sm service.ServerMessager
	if errors.As(err, &sm) {
		if msg := strings.TrimSpace(sm.ServerMessage()); msg != "" {
			return msg
		}
	}
	return fallback
}

func isNotFound(err error) bool {
	var nf service.NotFounder
	return errors.As(err, &nf) && nf.NotFound()
}

func orDefault(message, fallback string) string {
	if strings.TrimSpace(message) == "" {
		return fallback
	}
	return message
}
