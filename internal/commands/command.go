// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"todotree/internal/config"
	"todotree/internal/gateway"
	"todotree/internal/invalidate"
	"todotree/internal/mutation"
	"todotree/internal/tree"
)

// Kit bundles the remote-facing capabilities commands work with: the
// raw gateway, the invalidation bus, the tree provider for reads and
// the mutation coordinator for writes. The dispatcher builds one per
// invocation for commands that need the remote service.
type Kit struct {
	Gateway gateway.Gateway
	Bus     *invalidate.Bus
	Tree    *tree.Provider
	Mut     *mutation.Coordinator
}

// NewKit wires the core layers over one gateway. A nil gateway builds
// a kit without a session: the tree reads as empty and mutations must
// refuse to run.
func NewKit(gw gateway.Gateway) *Kit {
	bus := invalidate.NewBus()
	return &Kit{
		Gateway: gw,
		Bus:     bus,
		Tree:    tree.NewProvider(gw, bus),
		Mut:     mutation.NewCoordinator(gw, bus),
	}
}

// Ready reports whether the kit has a usable session behind it.
func (k *Kit) Ready() bool { return k != nil && k.Gateway != nil }

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsRemote returns true if the command requires a service
	// session. Commands like help, version, login, logout return false.
	NeedsRemote() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// kit is nil if NeedsRemote() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int
}
