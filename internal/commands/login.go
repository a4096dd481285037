package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todotree/internal/auth"
	"todotree/internal/config"
	"todotree/internal/exitcode"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct{}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate with the task service" }
func (c *LoginCmd) Usage() string     { return "todotree login [common flags]" }
func (c *LoginCmd) NeedsRemote() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, kit *Kit, args []string, out, errOut io.Writer) int {
	if !cfg.HasOAuthClient() {
		fmt.Fprintf(errOut, "error: %s not found in %s\n\n", config.OAuthClientFile, cfg.Dir)
		fmt.Fprintln(errOut, "To connect to the task service you need an app registration:")
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "1. Go to https://portal.azure.com and open 'App registrations'")
		fmt.Fprintln(errOut, "2. Register a new public client application")
		fmt.Fprintln(errOut, "   - Supported account types: personal Microsoft accounts")
		fmt.Fprintln(errOut, "   - Redirect URI: 'Mobile and desktop applications', http://localhost")
		fmt.Fprintln(errOut, "3. Grant it the delegated Tasks.ReadWrite permission")
		fmt.Fprintln(errOut, "4. Save the application (client) id as:")
		fmt.Fprintf(errOut, "   %s\n", cfg.OAuthClientPath())
		fmt.Fprintln(errOut, `   in the form {"client_id": "...", "tenant": "consumers"}`)
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "Then run 'todotree login' again.")
		return exitcode.AuthError
	}

	if cfg.HasToken() && auth.SessionValid(ctx, cfg) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	if err := auth.Login(ctx, cfg, errOut); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
