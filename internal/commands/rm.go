package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todotree/internal/config"
	"todotree/internal/exitcode"
	"todotree/internal/tree"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command: delete one or more tasks.
type RmCmd struct {
	listName string
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return nil }
func (c *RmCmd) Synopsis() string  { return "Delete tasks" }
func (c *RmCmd) Usage() string     { return "todotree rm [--list <list-name>] <ref>..." }
func (c *RmCmd) NeedsRemote() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		if errors.Is(err, ErrTaskRefRequired) {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}
	if code, ok := requireSession(kit, errOut); !ok {
		return code
	}
	if c.listName != "" && hasLetter(refs) {
		fmt.Fprintln(errOut, "error: cannot use both --list and list letter")
		return exitcode.UserError
	}

	// All references resolve against one snapshot, so deleting earlier
	// numbers does not shift the later ones.
	r := newResolver(kit)
	targets := make([]tree.TaskNode, 0, len(refs))
	for _, ref := range refs {
		if ref.TaskNum < 1 {
			fmt.Fprintf(errOut, "error: task number out of range: %d\n", ref.TaskNum)
			return exitcode.UserError
		}
		target, err := r.target(ctx, c.listName, ref)
		if err != nil {
			return fail(errOut, err)
		}
		targets = append(targets, target)
	}

	code := exitcode.Success
	for _, target := range targets {
		if err := kit.Mut.DeleteTask(ctx, target.Parent.List.ID, target.Task.ID); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			code = exitcode.BackendError
		}
	}
	if code == exitcode.Success && !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return code
}
