package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todotree/internal/config"
	"todotree/internal/exitcode"
	"todotree/internal/mutation"
	"todotree/internal/tree"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command: toggle completion on one or more
// tasks.
type DoneCmd struct {
	listName string
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Toggle task completion" }
func (c *DoneCmd) Usage() string     { return "todotree done [--list <list-name>] <ref>..." }
func (c *DoneCmd) NeedsRemote() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, kit, mutation.ToggleCompletion, c.listName, args, out, errOut)
}

// runToggle is the shared implementation for done and star: resolve
// every reference against one snapshot, then flip them as one batch.
// Targets are independent; failures are reported per task and do not
// stop the rest.
func runToggle(ctx context.Context, cfg *config.Config, kit *Kit, kind mutation.Kind, listName string, args []string, out, errOut io.Writer) int {
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
	if listName != "" && hasLetter(refs) {
		fmt.Fprintln(errOut, "error: cannot use both --list and list letter")
		return exitcode.UserError
	}

	r := newResolver(kit)
	targets := make([]tree.TaskNode, 0, len(refs))
	for _, ref := range refs {
		if ref.TaskNum < 1 {
			fmt.Fprintf(errOut, "error: task number out of range: %d\n", ref.TaskNum)
			return exitcode.UserError
		}
		target, err := r.target(ctx, listName, ref)
		if err != nil {
			return fail(errOut, err)
		}
		targets = append(targets, target)
	}

	code := exitcode.Success
	for _, res := range kit.Mut.Toggle(ctx, kind, targets) {
		if res.Err != nil {
			fmt.Fprintf(errOut, "error: %v\n", res.Err)
			code = exitcode.BackendError
		}
	}
	if code == exitcode.Success && !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return code
}

func hasLetter(refs []TaskRef) bool {
	for _, ref := range refs {
		if ref.HasLetter {
			return true
		}
	}
	return false
}
