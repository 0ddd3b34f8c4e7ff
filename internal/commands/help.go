package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fastygo/taskbox/internal/exitcode"
)

func init() {
	Register(&HelpCmd{registry: DefaultRegistry})
}

// HelpCmd lists the commands of its registry.
type HelpCmd struct {
	registry *Registry
}

func NewHelpCmd(registry *Registry) *HelpCmd {
	return &HelpCmd{registry: registry}
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskctl help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	for _, cmd := range c.registry.All() {
		line := fmt.Sprintf("  %-62s %s", cmd.Usage(), cmd.Synopsis())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			line += " (alias: " + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprint(out, commonFlags)
	return exitcode.Success
}

const commonFlags = `
Common flags:
  --config <dir>   Override config directory
  --api <url>      Override the API base URL
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Exit codes: 0 ok, 1 user error, 2 not signed in, 3 server error or unreachable
`
