package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todotree/internal/config"
	"todotree/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todotree help" }
func (c *HelpCmd) NeedsRemote() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todotree                                           Print the whole task tree
  todotree tree [common flags] [<list-name>]         Print the tree, or one list's subtree
  todotree lists [common flags]                      Print task lists
  todotree add [--list <list-name>] [--due <yyyy-mm-dd>] <title...>
  todotree done [--list <list-name>] <ref>...        Toggle completion
  todotree star [--list <list-name>] <ref>...        Toggle importance
  todotree edit [--list <list-name>] <ref> [--title <t>] [--note <n>] [--due <yyyy-mm-dd> | --clear-due]
  todotree rm [--list <list-name>] <ref>...          Delete tasks
  todotree newlist [common flags] <list-name>        Create a list
  todotree rmlist [--force] <list-name>              Delete a list
  todotree refresh [common flags] [<list-name>]      Invalidate and re-print
  todotree watch [common flags]                      Re-print the tree on every change
  todotree login [common flags]
  todotree logout [common flags]
  todotree help
  todotree version

Task references are the numbers the tree prints: "3" addresses the
default list, "b3" the list lettered b. Several references make one
batch.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
