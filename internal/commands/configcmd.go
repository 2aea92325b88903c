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
	Register(&ConfigCmd{})
}

// ConfigCmd prints the effective settings after file, env and flag overrides.
type ConfigCmd struct{}

func (c *ConfigCmd) Name() string       { return "config" }
func (c *ConfigCmd) Aliases() []string  { return nil }
func (c *ConfigCmd) Synopsis() string   { return "Print effective configuration" }
func (c *ConfigCmd) Usage() string      { return "taskctl config" }
func (c *ConfigCmd) NeedsService() bool { return false }

func (c *ConfigCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	format, err := output.ParseFormat(cfg.Settings.Output.Format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	if format == output.Text && !cfg.Quiet {
		fmt.Fprintf(out, "# dir: %s\n", cfg.Dir)
		if cfg.File != "" {
			fmt.Fprintf(out, "# file: %s\n", cfg.File)
		}
	}
	if err := output.WriteSettings(out, format, cfg.Settings); err != nil {
		return writeFailed(errOut, err)
	}
	return exitcode.Success
}
