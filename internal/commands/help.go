package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskctl/internal/config"
	"taskctl/internal/exitcode"
	"taskctl/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskctl help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskctl                                            List all tasks
  taskctl list [common flags]                        List all tasks
  taskctl show [common flags] <id>                   Show one task
  taskctl add [common flags] [--title <title>] --description <text> [<title...>]
  taskctl create [common flags] [--title <title>] --description <text> [<title...>]
  taskctl edit [common flags] [--title <title>] [--description <text>] <id>
  taskctl rm [common flags] <id>
  taskctl shell [common flags]                       Edit tasks interactively
  taskctl config [common flags]                      Print effective configuration
  taskctl help
  taskctl version

Common flags:
  --config <dir>       Override config directory
  --quiet              Suppress informational output
  --debug              Print debug logs to stderr
  --base-url <url>     Task API root (default http://localhost:3000/tasks)
  --timeout <dur>      Per-request timeout (default 10s)
  --output <format>    text, json or yaml

Environment:
  TASKCTL_API_BASE_URL, TASKCTL_API_TIMEOUT, TASKCTL_LOG_LEVEL,
  TASKCTL_LOG_FORMAT, TASKCTL_OUTPUT_FORMAT
`
