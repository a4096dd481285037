// Package main is the entry point for the todotree CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"todotree/internal/auth"
	"todotree/internal/cli"
	"todotree/internal/commands"
	"todotree/internal/config"
	"todotree/internal/gateway"
)

func main() {
	// A .env beside the invocation can seed TODOTREE_* overrides.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config) (*commands.Kit, error) {
		httpClient, err := auth.NewHTTPClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return commands.NewKit(gateway.NewClient(httpClient, cfg.BaseURL)), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
