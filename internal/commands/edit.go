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
	Register(&EditCmd{})
}

// EditCmd loads a task, overrides the given fields and saves it.
type EditCmd struct {
	draftFlags
}

// SetDraft sets the flag values (for testing).
func (c *EditCmd) SetDraft(title, description string) {
	c.title, c.description = title, description
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return []string{"update"} }
func (c *EditCmd) Synopsis() string   { return "Update a task" }
func (c *EditCmd) Usage() string      { return "taskctl edit [--title <title>] [--description <text>] <id>" }
func (c *EditCmd) NeedsService() bool { return true }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) { c.register(fs) }

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if c.title == "" && c.description == "" {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --description)")
		return exitcode.UserError
	}

	wf, format := newWorkflow(cfg, svc, out, errOut)
	if err := wf.BeginEdit(ctx, id); err != nil {
		return exitCodeFor(err)
	}
	if c.title != "" {
		wf.SetTitle(c.title)
	}
	if c.description != "" {
		wf.SetDescription(c.description)
	}

	task, err := wf.Submit(ctx)
	if err != nil {
		return exitCodeFor(err)
	}
	if format == output.Text && cfg.Quiet {
		return exitcode.Success
	}
	if err := writeResult(out, format, task); err != nil {
		return writeFailed(errOut, err)
	}
	return exitcode.Success
}
