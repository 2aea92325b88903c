package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskctl/internal/config"
	"taskctl/internal/exitcode"
	"taskctl/internal/output"
	"taskctl/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskctl` (no args) and `taskctl list`.
type ListCmd struct{}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List all tasks" }
func (c *ListCmd) Usage() string      { return "taskctl list" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	wf, format := newWorkflow(cfg, svc, out, errOut)
	if err := wf.Initialize(ctx); err != nil {
		return exitCodeFor(err)
	}

	tasks := wf.Tasks()
	if format == output.Text && len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}
	if err := output.WriteTasks(out, format, tasks); err != nil {
		return writeFailed(errOut, err)
	}
	return exitcode.Success
}
