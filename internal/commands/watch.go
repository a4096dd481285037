package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"todotree/internal/auth"
	"todotree/internal/config"
	"todotree/internal/exitcode"
	"todotree/internal/tree"
)

// watchBuffer is the invalidation subscription depth; a re-print can
// lag this many events before older ones are dropped.
const watchBuffer = 16

func init() {
	Register(&WatchCmd{})
}

// WatchCmd implements the watch command: a long-lived view that
// re-expands and re-prints whatever the invalidation channel marks
// stale, until interrupted.
type WatchCmd struct{}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "Re-print the tree on every change" }
func (c *WatchCmd) Usage() string     { return "todotree watch [common flags]" }
func (c *WatchCmd) NeedsRemote() bool { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int {
	if code, ok := requireSession(kit, errOut); !ok {
		return code
	}

	id, events := kit.Tree.Subscribe(watchBuffer)
	defer kit.Tree.Unsubscribe(id)

	// Credential changes from other processes invalidate the whole
	// tree, so a login or logout elsewhere shows up here.
	stop, err := auth.WatchSession(ctx, cfg.TokenPath(), kit.Bus)
	if err != nil {
		slog.Warn("session watcher unavailable", "err", err)
	} else {
		defer stop()
	}

	if err := printTree(ctx, kit, out); err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(errOut, "watching for changes (interrupt to stop)")
	}

	for {
		select {
		case <-ctx.Done():
			return exitcode.Success
		case ev, ok := <-events:
			if !ok {
				return exitcode.Success
			}
			slog.Debug("subtree stale", "key", ev.Key)
			fmt.Fprintln(out)
			// A failed re-expansion leaves this view stale but alive.
			if listID, scoped := tree.ScopeListID(ev.Key); scoped {
				if err := printListSubtree(ctx, kit, listID, out); err != nil {
					fmt.Fprintf(errOut, "error: backend error: %v\n", err)
				}
				continue
			}
			if err := printTree(ctx, kit, out); err != nil {
				fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			}
		}
	}
}
