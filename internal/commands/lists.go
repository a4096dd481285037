package commands

import (
	"context"
	"flag"
	"io"

	"todotree/internal/config"
	"todotree/internal/exitcode"
	"todotree/internal/output"
	"todotree/internal/tree"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct{}

func (c *ListsCmd) Name() string      { return "lists" }
func (c *ListsCmd) Aliases() []string { return nil }
func (c *ListsCmd) Synopsis() string  { return "Print all lists" }
func (c *ListsCmd) Usage() string     { return "todotree lists [common flags]" }
func (c *ListsCmd) NeedsRemote() bool { return true }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int {
	nodes, err := kit.Tree.RootChildren(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	for _, node := range nodes {
		if ln, ok := node.(tree.ListNode); ok {
			output.FormatListName(out, tree.Describe(ln))
		}
	}
	return exitcode.Success
}
