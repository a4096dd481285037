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
	Register(&RmListCmd{})
}

// RmListCmd implements the rmlist command.
type RmListCmd struct {
	force bool
}

func (c *RmListCmd) Name() string      { return "rmlist" }
func (c *RmListCmd) Aliases() []string { return nil }
func (c *RmListCmd) Synopsis() string  { return "Delete a list" }
func (c *RmListCmd) Usage() string     { return "todotree rmlist [--force] <list-name>" }
func (c *RmListCmd) NeedsRemote() bool { return true }

func (c *RmListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *RmListCmd) Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}
	if code, ok := requireSession(kit, errOut); !ok {
		return code
	}

	r := newResolver(kit)
	list, err := r.listByName(ctx, name)
	if err != nil {
		return fail(errOut, err)
	}
	if list.IsDefault() {
		fmt.Fprintln(errOut, "error: cannot delete default list")
		return exitcode.UserError
	}

	if !c.force {
		open, err := kit.Tree.Children(ctx, tree.GroupNode{List: list, Kind: tree.GroupInProgress})
		if err != nil {
			return fail(errOut, err)
		}
		if len(open) > 0 {
			fmt.Fprintln(errOut, "error: list not empty (use --force)")
			return exitcode.UserError
		}
	}

	if err := kit.Mut.DeleteList(ctx, list.ID); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
