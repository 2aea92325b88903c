package taskapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrMalformedEnvelope is wrapped by a ProtocolError when a successful HTTP
// response does not carry a {status, message, data} envelope.
var ErrMalformedEnvelope = errors.New("response is not a task envelope")

// TransportError reports that the HTTP round trip itself failed: the
// connection was refused, the name did not resolve, or the call timed out.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("%s: request timed out", e.Op)
	}
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the call ran past its deadline.
func (e *TransportError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// ProtocolError reports a response that arrived but cannot be used: a non-2xx
// status, or a 2xx body that is not an envelope.
type ProtocolError struct {
	Op         string
	StatusCode int

	// Message is the envelope message the server sent with a non-2xx status, if any.
	Message string

	Err error
}

func (e *ProtocolError) Error() string {
	detail := e.Message
	if detail == "" {
		var apiErr *googleapi.Error
		if e.Err == nil || errors.As(e.Err, &apiErr) {
			detail = http.StatusText(e.StatusCode)
		} else {
			detail = e.Err.Error()
		}
	}
	return fmt.Sprintf("%s: unexpected response (HTTP %d): %s", e.Op, e.StatusCode, detail)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// ServerMessage implements service.ServerMessager.
func (e *ProtocolError) ServerMessage() string { return e.Message }

// NotFound implements service.NotFounder.
func (e *ProtocolError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// newProtocolError builds a ProtocolError from a googleapi.CheckResponse
// failure, lifting the envelope message out of the body when there is one.
func newProtocolError(op string, statusCode int, err error) *ProtocolError {
	pe := &ProtocolError{Op: op, StatusCode: statusCode, Err: err}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return pe
	}

	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if json.Unmarshal([]byte(apiErr.Body), &body) == nil && body.Status != "" {
		pe.Message = strings.TrimSpace(body.Message)
	}
	if pe.Message == "" {
		pe.Message = apiErr.Message
	}
	return pe
}
