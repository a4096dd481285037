package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todotree/internal/config"
	"todotree/internal/exitcode"
	"todotree/internal/tree"
)

func init() {
	Register(&RefreshCmd{})
}

// RefreshCmd implements the refresh command: mark a subtree stale for
// every subscribed view, then print it freshly expanded.
type RefreshCmd struct{}

func (c *RefreshCmd) Name() string      { return "refresh" }
func (c *RefreshCmd) Aliases() []string { return nil }
func (c *RefreshCmd) Synopsis() string  { return "Invalidate and re-print" }
func (c *RefreshCmd) Usage() string     { return "todotree refresh [common flags] [<list-name>]" }
func (c *RefreshCmd) NeedsRemote() bool { return true }

func (c *RefreshCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RefreshCmd) Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int {
	if !kit.Ready() {
		if !cfg.Quiet {
			fmt.Fprintln(errOut, "not logged in (run: todotree login)")
		}
		return exitcode.Success
	}

	if len(args) > 0 {
		name := strings.Join(args, " ")
		list, err := newResolver(kit).listByName(ctx, name)
		if err != nil {
			return fail(errOut, err)
		}
		kit.Tree.Refresh(tree.ListNode{List: list})
		if err := printListSubtree(ctx, kit, list.ID, out); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}

	kit.Tree.Refresh(nil)
	if err := printTree(ctx, kit, out); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
