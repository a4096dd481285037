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
	Register(&NewListCmd{})
}

// NewListCmd implements the newlist command, the create-list
// affordance's action.
type NewListCmd struct{}

func (c *NewListCmd) Name() string      { return "newlist" }
func (c *NewListCmd) Aliases() []string { return []string{"createlist"} }
func (c *NewListCmd) Synopsis() string  { return "Create a new list" }
func (c *NewListCmd) Usage() string     { return "todotree newlist [common flags] <list-name>" }
func (c *NewListCmd) NeedsRemote() bool { return true }

func (c *NewListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *NewListCmd) Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}
	if code, ok := requireSession(kit, errOut); !ok {
		return code
	}

	// Refuse names that already resolve, so the tree stays addressable
	// by name.
	lists, err := newResolver(kit).allLists(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	for _, list := range lists {
		if strings.EqualFold(strings.TrimSpace(list.DisplayName), name) {
			fmt.Fprintf(errOut, "error: list already exists: %s\n", name)
			return exitcode.UserError
		}
	}

	if _, err := kit.Mut.CreateList(ctx, name); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
