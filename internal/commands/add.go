package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"todotree/internal/config"
	"todotree/internal/exitcode"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command: create an open task.
type AddCmd struct {
	listName string
	due      string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "todotree add [--list <list-name>] [--due <yyyy-mm-dd>] <title...>"
}
func (c *AddCmd) NeedsRemote() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if c.due != "" {
		if _, err := time.Parse("2006-01-02", c.due); err != nil {
			fmt.Fprintf(errOut, "error: invalid due date: %s\n", c.due)
			return exitcode.UserError
		}
	}
	if code, ok := requireSession(kit, errOut); !ok {
		return code
	}

	r := newResolver(kit)
	list, err := r.refList(ctx, c.listName, TaskRef{})
	if err != nil {
		return fail(errOut, err)
	}
	if _, err := kit.Mut.CreateTask(ctx, list.ID, title, c.due); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
