package auth_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"todotree/internal/auth"
	"todotree/internal/invalidate"
)

func TestWatchSessionPublishesOnTokenChange(t *testing.T) {
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "token.json")
	bus := invalidate.NewBus()
	defer bus.Close()
	_, events := bus.Subscribe(4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop, err := auth.WatchSession(ctx, tokenPath, bus)
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	// Other files in the config directory stay quiet.
	writeFile(t, filepath.Join(dir, "config.yaml"), "quiet: true\n")
	select {
	case ev := <-events:
		t.Fatalf("unexpected invalidation for unrelated file: %+v", ev)
	case <-time.After(500 * time.Millisecond):
	}

	writeFile(t, tokenPath, `{"access_token": "at"}`)
	select {
	case ev := <-events:
		if ev != invalidate.Everything {
			t.Errorf("expected whole-tree invalidation, got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no invalidation after token write")
	}
}

func TestWatchSessionDebouncesRewriteBurst(t *testing.T) {
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "token.json")
	bus := invalidate.NewBus()
	defer bus.Close()
	_, events := bus.Subscribe(4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop, err := auth.WatchSession(ctx, tokenPath, bus)
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	for i := 0; i < 3; i++ {
		writeFile(t, tokenPath, `{"access_token": "at"}`)
	}

	select {
	case <-events:
	case <-time.After(2 * time.Second):
		t.Fatal("no invalidation after token writes")
	}
	select {
	case ev := <-events:
		t.Fatalf("expected the burst coalesced into one event, got another: %+v", ev)
	case <-time.After(500 * time.Millisecond):
	}
}
