package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskctl/internal/config"
	"taskctl/internal/exitcode"
	"taskctl/internal/output"
	"taskctl/internal/service"
)

func init() {
	Register(&AddCmd{})
	Register(&CreateCmd{})
}

// draftFlags are the fields shared by add, create and edit.
type draftFlags struct {
	title       string
	description string
}

func (f *draftFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.title, "title", "t", "", "")
	fs.StringVarP(&f.description, "description", "d", "", "")
}

// AddCmd implements the add command.
type AddCmd struct {
	draftFlags
}

// SetDraft sets the flag values (for testing).
func (c *AddCmd) SetDraft(title, description string) {
	c.title, c.description = title, description
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return nil }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "taskctl add [--title <title>] --description <text> [<title...>]" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) { c.register(fs) }

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, c.draftFlags, args, out, errOut)
}

// CreateCmd is an alias for AddCmd.
type CreateCmd struct {
	draftFlags
}

func (c *CreateCmd) Name() string       { return "create" }
func (c *CreateCmd) Aliases() []string  { return nil }
func (c *CreateCmd) Synopsis() string   { return "Create a task (alias for add)" }
func (c *CreateCmd) Usage() string      { return "taskctl create [--title <title>] --description <text> [<title...>]" }
func (c *CreateCmd) NeedsService() bool { return true }

func (c *CreateCmd) RegisterFlags(fs *pflag.FlagSet) { c.register(fs) }

func (c *CreateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, c.draftFlags, args, out, errOut)
}

// runAdd is the shared implementation for add and create commands.
func runAdd(ctx context.Context, cfg *config.Config, svc service.Service, flags draftFlags, args []string, out, errOut io.Writer) int {
	title := flags.title
	if len(args) > 0 {
		if title != "" {
			fmt.Fprintln(errOut, "error: cannot use both --title and a positional title")
			return exitcode.UserError
		}
		title = strings.Join(args, " ")
	}

	wf, format := newWorkflow(cfg, svc, out, errOut)
	wf.SetTitle(title)
	wf.SetDescription(flags.description)

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

// writeResult prints a task after a successful submit: a single line in
// text mode, the full record otherwise.
func writeResult(out io.Writer, format output.Format, task service.Task) error {
	if format == output.Text {
		output.FormatTask(out, task)
		return nil
	}
	return output.WriteTask(out, format, task)
}
