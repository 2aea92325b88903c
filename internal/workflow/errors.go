package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTaskNotFound is returned when a lookup names a task the server does not
// have: an empty result, a FAILURE envelope or an HTTP 404.
var ErrTaskNotFound = errors.New("task not found")

// ValidationError blocks a submit before any call is made.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// ApplicationFailure is an envelope the server answered with status FAILURE.
type ApplicationFailure struct {
	Op      string
	Message string
}

func (e *ApplicationFailure) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: server reported failure", e.Op)
	}
	return fmt.Sprintf("%s: server reported failure: %s", e.Op, e.Message)
}

// ServerMessage implements service.ServerMessager.
func (e *ApplicationFailure) ServerMessage() string { return e.Message }
