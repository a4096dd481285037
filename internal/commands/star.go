package commands

import (
	"context"
	"flag"
	"io"

	"todotree/internal/config"
	"todotree/internal/mutation"
)

func init() {
	Register(&StarCmd{})
}

// StarCmd implements the star command: toggle importance on one or more
// tasks.
type StarCmd struct {
	listName string
}

func (c *StarCmd) Name() string      { return "star" }
func (c *StarCmd) Aliases() []string { return nil }
func (c *StarCmd) Synopsis() string  { return "Toggle task importance" }
func (c *StarCmd) Usage() string     { return "todotree star [--list <list-name>] <ref>..." }
func (c *StarCmd) NeedsRemote() bool { return true }

func (c *StarCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *StarCmd) Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, kit, mutation.ToggleImportance, c.listName, args, out, errOut)
}
