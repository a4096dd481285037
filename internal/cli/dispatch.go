// Package cli parses arguments and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"todotree/internal/auth"
	"todotree/internal/commands"
	"todotree/internal/config"
	"todotree/internal/exitcode"
)

// KitFactory builds the remote-facing capability kit from config. The
// composition root injects the real gateway here; tests inject fakes.
type KitFactory func(ctx context.Context, cfg *config.Config) (*commands.Kit, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  KitFactory
}

// NewDispatcher creates a dispatcher over a command registry and a kit
// factory.
func NewDispatcher(registry *commands.Registry, factory KitFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> print the tree.
	if len(args) == 0 {
		return d.dispatch(ctx, "tree", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command first.
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // errors are reported below

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return flagError(err, errOut)
	}

	// A leading dash after the positionals means a flag the set did not
	// define.
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	setupLogging(cfg, errOut)

	var kit *commands.Kit
	if cmd.NeedsRemote() {
		kit, err = d.factory(ctx, cfg)
		switch {
		case errors.Is(err, auth.ErrNotLoggedIn):
			// No session is not fatal: reads show an empty tree and
			// mutations refuse with an auth error. The command decides.
			kit = commands.NewKit(nil)
		case err != nil:
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	return cmd.Run(ctx, cfg, kit, positionalArgs, out, errOut)
}

// flagError reports a flag parse failure the way the rest of the CLI
// reports user errors.
func flagError(err error, errOut io.Writer) int {
	errStr := err.Error()

	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		flagName := strings.TrimSpace(parts[len(parts)-1])
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
		return exitcode.UserError
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}

// setupLogging installs the process logger: level from settings with
// --debug winning, text handler for people, JSON for collectors.
func setupLogging(cfg *config.Config, errOut io.Writer) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(errOut, opts)
	} else {
		handler = slog.NewTextHandler(errOut, opts)
	}
	slog.SetDefault(slog.New(handler))
}
