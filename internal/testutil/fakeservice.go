// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"taskctl/internal/service"
)

// ErrInjected is a convenient transport-style error for error injection.
var ErrInjected = errors.New("connection refused")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int
	calls  map[string]int

	// Error injection for testing: a non-nil error is returned instead of an envelope.
	ListErr   error
	CreateErr error
	GetErr    error
	UpdateErr error
	DeleteErr error

	// Failures maps an operation name to the message of a FAILURE envelope
	// returned instead of performing the operation.
	Failures map[string]string

	// PartialUpdates makes Update return only the title in its data.
	PartialUpdates bool

	// EmptyGet makes Get answer SUCCESS with no data.
	EmptyGet bool

	// OnCall, if set, runs at the start of every call with the operation name.
	OnCall func(op string)
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID:   1,
		calls:    make(map[string]int),
		Failures: make(map[string]string),
	}
}

// AddTask adds a task with a fixed id.
func (f *FakeService) AddTask(id, title, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		ID:          service.ID(id),
		Title:       title,
		Description: description,
	})
	if n, err := strconv.Atoi(id); err == nil && n >= f.nextID {
		f.nextID = n + 1
	}
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Calls returns how many times op was invoked.
func (f *FakeService) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns the number of calls across all operations.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// begin records a call and reports any injected failure message.
func (f *FakeService) begin(op string) (string, bool) {
	if f.OnCall != nil {
		f.OnCall(op)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	msg, failed := f.Failures[op]
	return msg, failed
}

// List implements service.Service.
func (f *FakeService) List(ctx context.Context) (service.Envelope[[]service.Task], error) {
	msg, failed := f.begin(service.OpList)
	if f.ListErr != nil {
		return service.Envelope[[]service.Task]{}, f.ListErr
	}
	if failed {
		return failureEnvelope[[]service.Task](msg), nil
	}
	return success("Tasks fetched successfully", f.Tasks()), nil
}

// Create implements service.Service.
func (f *FakeService) Create(ctx context.Context, draft service.Draft) (service.Envelope[service.Task], error) {
	msg, failed := f.begin(service.OpCreate)
	if f.CreateErr != nil {
		return service.Envelope[service.Task]{}, f.CreateErr
	}
	if failed {
		return failureEnvelope[service.Task](msg), nil
	}

	f.mu.Lock()
	task := service.Task{
		ID:          service.ID(strconv.Itoa(f.nextID)),
		Title:       draft.Title,
		Description: draft.Description,
	}
	f.nextID++
	f.tasks = append(f.tasks, task)
	f.mu.Unlock()

	return success("Task created successfully", task), nil
}

// Get implements service.Service.
func (f *FakeService) Get(ctx context.Context, id service.ID) (service.Envelope[[]service.Task], error) {
	msg, failed := f.begin(service.OpGet)
	if f.GetErr != nil {
		return service.Envelope[[]service.Task]{}, f.GetErr
	}
	if failed {
		return failureEnvelope[[]service.Task](msg), nil
	}
	if f.EmptyGet {
		return success[[]service.Task]("Task fetched successfully", nil), nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, task := range f.tasks {
		if task.ID == id {
			return success("Task fetched successfully", []service.Task{task}), nil
		}
	}
	return failureEnvelope[[]service.Task]("Task not found"), nil
}

// Update implements service.Service.
func (f *FakeService) Update(ctx context.Context, id service.ID, draft service.Draft) (service.Envelope[service.Task], error) {
	msg, failed := f.begin(service.OpUpdate)
	if f.UpdateErr != nil {
		return service.Envelope[service.Task]{}, f.UpdateErr
	}
	if failed {
		return failureEnvelope[service.Task](msg), nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, task := range f.tasks {
		if task.ID == id {
			f.tasks[i] = task.Merge(service.Task{Title: draft.Title, Description: draft.Description})
			data := f.tasks[i]
			if f.PartialUpdates {
				data = service.Task{Title: data.Title}
			}
			return success("Task updated successfully", data), nil
		}
	}
	return failureEnvelope[service.Task]("Task not found"), nil
}

// Delete implements service.Service.
func (f *FakeService) Delete(ctx context.Context, id service.ID) (service.Envelope[any], error) {
	msg, failed := f.begin(service.OpDelete)
	if f.DeleteErr != nil {
		return service.Envelope[any]{}, f.DeleteErr
	}
	if failed {
		return failureEnvelope[any](msg), nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, task := range f.tasks {
		if task.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return success[any]("Task deleted successfully", nil), nil
		}
	}
	return failureEnvelope[any]("Task not found"), nil
}

func success[T any](message string, data T) service.Envelope[T] {
	return service.Envelope[T]{Status: service.StatusSuccess, Message: message, Data: data}
}

func failureEnvelope[T any](message string) service.Envelope[T] {
	return service.Envelope[T]{Status: service.StatusFailure, Message: message}
}
