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
	Register(&ShowCmd{})
}

// ShowCmd prints one task fetched by id.
type ShowCmd struct{}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return []string{"get"} }
func (c *ShowCmd) Synopsis() string   { return "Show a task" }
func (c *ShowCmd) Usage() string      { return "taskctl show <id>" }
func (c *ShowCmd) NeedsService() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	wf, format := newWorkflow(cfg, svc, out, errOut)
	task, err := wf.Lookup(ctx, id)
	if err != nil {
		return exitCodeFor(err)
	}
	if err := output.WriteTask(out, format, task); err != nil {
		return writeFailed(errOut, err)
	}
	return exitcode.Success
}
