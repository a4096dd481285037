package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todotree/internal/config"
	"todotree/internal/exitcode"
)

func init() {
	Register(&TreeCmd{})
}

// TreeCmd implements the tree command, the default when no command is
// given. It prints the whole tree, or one list's subtree.
type TreeCmd struct{}

func (c *TreeCmd) Name() string      { return "tree" }
func (c *TreeCmd) Aliases() []string { return nil }
func (c *TreeCmd) Synopsis() string  { return "Print the task tree" }
func (c *TreeCmd) Usage() string     { return "todotree tree [common flags] [<list-name>]" }
func (c *TreeCmd) NeedsRemote() bool { return true }

func (c *TreeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TreeCmd) Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int {
	// Without a session the tree is empty, not an error.
	if !kit.Ready() {
		if !cfg.Quiet {
			fmt.Fprintln(errOut, "not logged in (run: todotree login)")
		}
		return exitcode.Success
	}

	if len(args) > 0 {
		return c.runOne(ctx, kit, strings.Join(args, " "), out, errOut)
	}

	if err := printTree(ctx, kit, out); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}

// runOne prints a single list's subtree.
func (c *TreeCmd) runOne(ctx context.Context, kit *Kit, name string, out, errOut io.Writer) int {
	list, err := newResolver(kit).listByName(ctx, name)
	if err != nil {
		return fail(errOut, err)
	}
	if err := printListSubtree(ctx, kit, list.ID, out); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
