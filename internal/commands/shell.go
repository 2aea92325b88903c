package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"taskctl/internal/config"
	"taskctl/internal/exitcode"
	"taskctl/internal/output"
	"taskctl/internal/service"
	"taskctl/internal/workflow"
)

func init() {
	Register(&ShellCmd{})
}

const shellPrompt = "taskctl> "

const shellHelp = `Commands:
  list                 Reload and print all tasks
  new                  Start a new task (discards the draft)
  edit <id>            Load a task into the form
  title <text>         Set the draft title
  desc <text>          Set the draft description
  set <field> <text>   Set a draft field by name
  draft                Show the form
  submit               Create or update from the draft
  cancel               Discard the draft and leave edit mode
  rm <id>              Delete a task
  help                 Show this help
  quit                 Leave the shell
`

// ShellCmd runs an interactive form session over one Workflow.
type ShellCmd struct {
	in io.Reader
}

// SetInput sets the command source (for testing). Defaults to stdin.
func (c *ShellCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *ShellCmd) Name() string       { return "shell" }
func (c *ShellCmd) Aliases() []string  { return nil }
func (c *ShellCmd) Synopsis() string   { return "Edit tasks interactively" }
func (c *ShellCmd) Usage() string      { return "taskctl shell" }
func (c *ShellCmd) NeedsService() bool { return true }

func (c *ShellCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	in := c.in
	if in == nil {
		in = os.Stdin
	}

	wf, format := newWorkflow(cfg, svc, out, errOut)
	s := &shell{wf: wf, format: format, out: out, errOut: errOut}

	// A failed initial load is already reported; the session stays usable.
	_ = wf.Initialize(ctx)

	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return exitcode.Success
		}
		if !cfg.Quiet {
			fmt.Fprint(out, shellPrompt)
		}
		if !scanner.Scan() {
			break
		}
		if done := s.exec(ctx, scanner.Text()); done {
			return exitcode.Success
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: failed to read input: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

type shell struct {
	wf     *workflow.Workflow
	format output.Format
	out    io.Writer
	errOut io.Writer
}

// exec runs one input line and reports whether the session should end.
func (s *shell) exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprint(s.out, shellHelp)
	case "list", "ls", "reload":
		if err := s.wf.Initialize(ctx); err == nil {
			s.printTasks()
		}
	case "new":
		s.wf.Reset()
	case "edit":
		if rest == "" {
			s.usage("edit <id>")
			return false
		}
		if err := s.wf.BeginEdit(ctx, service.ID(rest)); err == nil {
			s.printDraft()
		}
	case "title":
		s.wf.SetTitle(rest)
	case "desc", "description":
		s.wf.SetDescription(rest)
	case "set":
		field, value, _ := strings.Cut(rest, " ")
		if field == "" {
			s.usage("set <field> <text>")
			return false
		}
		if err := s.wf.SetField(field, strings.TrimSpace(value)); err != nil {
			fmt.Fprintf(s.errOut, "error: %v\n", err)
		}
	case "draft":
		s.printDraft()
	case "submit", "save":
		if task, err := s.wf.Submit(ctx); err == nil && s.format != output.Text {
			if err := output.WriteTask(s.out, s.format, task); err != nil {
				fmt.Fprintf(s.errOut, "error: failed to write output: %v\n", err)
			}
		}
	case "cancel", "reset":
		s.wf.Reset()
	case "rm", "delete":
		if rest == "" {
			s.usage("rm <id>")
			return false
		}
		_ = s.wf.Delete(ctx, service.ID(rest))
	default:
		fmt.Fprintf(s.errOut, "error: unknown command: %s (try help)\n", verb)
	}
	return false
}

func (s *shell) usage(text string) {
	fmt.Fprintf(s.errOut, "error: usage: %s\n", text)
}

func (s *shell) printTasks() {
	tasks := s.wf.Tasks()
	if s.format == output.Text && len(tasks) == 0 {
		fmt.Fprintln(s.out, "no tasks found")
		return
	}
	if err := output.WriteTasks(s.out, s.format, tasks); err != nil {
		fmt.Fprintf(s.errOut, "error: failed to write output: %v\n", err)
	}
}

func (s *shell) printDraft() {
	session := s.wf.Session()
	view := output.DraftView{
		Mode:   session.Mode().String(),
		Target: session.TargetID,
		Draft:  s.wf.Draft(),
	}
	if err := output.WriteDraft(s.out, s.format, view); err != nil {
		fmt.Fprintf(s.errOut, "error: failed to write output: %v\n", err)
	}
}
