package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"taskctl/internal/config"
	"taskctl/internal/exitcode"
	"taskctl/internal/output"
	"taskctl/internal/service"
	"taskctl/internal/workflow"
)

// ErrIDRequired is returned when a command needs a task id and none was given.
var ErrIDRequired = errors.New("task id required")

// newWorkflow builds a Workflow whose notifications are printed to out/errOut.
func newWorkflow(cfg *config.Config, svc service.Service, out, errOut io.Writer) (*workflow.Workflow, output.Format) {
	format, err := output.ParseFormat(cfg.Settings.Output.Format)
	if err != nil {
		format = output.Text
	}
	notifier := &output.WriterNotifier{
		Out:    out,
		ErrOut: errOut,
		Quiet:  cfg.Quiet,
		Format: format,
	}
	return workflow.New(svc, notifier, cfg.Log()), format
}

// exitCodeFor maps a workflow error to an exit code. The workflow has
// already notified the user, so nothing is printed here.
func exitCodeFor(err error) int {
	var validationErr *workflow.ValidationError
	switch {
	case err == nil:
		return exitcode.Success
	case errors.As(err, &validationErr), errors.Is(err, workflow.ErrTaskNotFound):
		return exitcode.UserError
	default:
		return exitcode.BackendError
	}
}

// parseID extracts exactly one task id from positional args.
func parseID(args []string) (service.ID, error) {
	if len(args) == 0 {
		return "", ErrIDRequired
	}
	if len(args) > 1 {
		return "", fmt.Errorf("expected one task id, got %d arguments", len(args))
	}
	id := strings.TrimSpace(args[0])
	if id == "" {
		return "", ErrIDRequired
	}
	return service.ID(id), nil
}

// writeFailed reports an error rendering output.
func writeFailed(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: failed to write output: %v\n", err)
	return exitcode.UserError
}
