package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"todotree/internal/config"
	"todotree/internal/exitcode"
	"todotree/internal/mutation"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command: patch a task's title, note or
// due date. Only the flags given are sent; the rest of the task is left
// untouched.
type EditCmd struct {
	listName string
	title    *string
	note     *string
	due      *string
	clearDue bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit task fields" }
func (c *EditCmd) Usage() string {
	return "todotree edit [--list <list-name>] <ref> [--title <t>] [--note <n>] [--due <yyyy-mm-dd> | --clear-due]"
}
func (c *EditCmd) NeedsRemote() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	// Func flags keep "--title ''" distinguishable from an absent flag.
	fs.Func("title", "", func(s string) error { c.title = &s; return nil })
	fs.Func("note", "", func(s string) error { c.note = &s; return nil })
	fs.Func("due", "", func(s string) error { c.due = &s; return nil })
	fs.BoolVar(&c.clearDue, "clear-due", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task reference required")
		return exitcode.UserError
	}
	ref, err := ParseTaskRef(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if c.listName != "" && ref.HasLetter {
		fmt.Fprintln(errOut, "error: cannot use both --list and list letter")
		return exitcode.UserError
	}
	if c.due != nil && c.clearDue {
		fmt.Fprintln(errOut, "error: cannot use both --due and --clear-due")
		return exitcode.UserError
	}

	edit := mutation.FieldEdit{Title: c.title, Note: c.note, Due: c.due}
	if c.clearDue {
		cleared := ""
		edit.Due = &cleared
	}
	if edit.Title == nil && edit.Note == nil && edit.Due == nil {
		fmt.Fprintln(errOut, "error: nothing to edit")
		return exitcode.UserError
	}
	if c.due != nil {
		if _, err := time.Parse("2006-01-02", *c.due); err != nil {
			fmt.Fprintf(errOut, "error: invalid due date: %s\n", *c.due)
			return exitcode.UserError
		}
	}

	if code, ok := requireSession(kit, errOut); !ok {
		return code
	}

	target, err := newResolver(kit).target(ctx, c.listName, ref)
	if err != nil {
		return fail(errOut, err)
	}
	if err := kit.Mut.EditFields(ctx, target.Parent.List.ID, target.Task.ID, edit); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
