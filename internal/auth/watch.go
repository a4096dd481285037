package auth

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"todotree/internal/invalidate"
)

// sessionDebounce coalesces the burst of filesystem events a single
// token rewrite produces.
const sessionDebounce = 300 * time.Millisecond

// WatchSession publishes a whole-tree invalidation whenever the stored
// session file changes on disk, so long-running views pick up logins
// and logouts from other processes. The returned stop function releases
// the watcher.
func WatchSession(ctx context.Context, tokenPath string, bus *invalidate.Bus) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory; the token file itself comes and goes.
	if err := watcher.Add(filepath.Dir(tokenPath)); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		var pending *time.Timer
		defer func() {
			if pending != nil {
				pending.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != tokenPath {
					continue
				}
				if !event.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
					continue
				}
				slog.Debug("session file changed", "op", event.Op.String())
				if pending == nil {
					pending = time.AfterFunc(sessionDebounce, func() {
						bus.Publish(invalidate.Everything)
					})
				} else {
					pending.Reset(sessionDebounce)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("session watcher", "err", err)
			}
		}
	}()

	return watcher.Close, nil
}
