package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"todotree/internal/auth"
	"todotree/internal/cli"
	"todotree/internal/commands"
	"todotree/internal/config"
	"todotree/internal/exitcode"
	"todotree/internal/testutil"
)

// testFactory builds a kit factory over the given fake gateway.
func testFactory(fake *testutil.FakeGateway) cli.KitFactory {
	return func(ctx context.Context, cfg *config.Config) (*commands.Kit, error) {
		return commands.NewKit(fake), nil
	}
}

func notLoggedInFactory(ctx context.Context, cfg *config.Config) (*commands.Kit, error) {
	return nil, auth.ErrNotLoggedIn
}

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeGateway()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeGateway()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	isolateConfig(t)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeGateway()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	isolateConfig(t)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeGateway()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "todotree 0.1.0\n" {
		t.Errorf("expected 'todotree 0.1.0\\n', got %q", stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeGateway()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeGateway()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"tree", "--config"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -config\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_NoArgsPrintsTree(t *testing.T) {
	isolateConfig(t)
	fake := testutil.NewFakeGateway()
	fake.AddDefaultList("L0", "My Tasks")
	fake.AddTask("L0", "T1", "Pay rent")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(fake))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "My Tasks [default]") {
		t.Errorf("expected the tree printed, got %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "Pay rent") {
		t.Errorf("expected task lines printed, got %q", stdout.String())
	}
}

func TestDispatcher_CommandAlias(t *testing.T) {
	isolateConfig(t)
	fake := testutil.NewFakeGateway()
	fake.AddDefaultList("L0", "My Tasks")
	fake.AddList("L1", "Groceries")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(fake))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"create", "--list", "Groceries", "Bread"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "ok\n" {
		t.Errorf("expected ok, got %q", stdout.String())
	}
	found := false
	for _, call := range fake.Calls {
		if call == "POST /lists/L1/tasks" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the alias to create a task, calls: %v", fake.Calls)
	}
}

func TestDispatcher_QuietFlag(t *testing.T) {
	isolateConfig(t)
	fake := testutil.NewFakeGateway()
	fake.AddDefaultList("L0", "My Tasks")
	fake.AddTask("L0", "T1", "Pay rent")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(fake))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"done", "--quiet", "1"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "" {
		t.Errorf("expected quiet to suppress ok, got %q", stdout.String())
	}
}

func TestDispatcher_NotLoggedInReadIsEmpty(t *testing.T) {
	isolateConfig(t)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, notLoggedInFactory)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"tree"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected a missing session to read as empty, got exit %d", code)
	}
	if stdout.String() != "" {
		t.Errorf("expected empty stdout, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "not logged in") {
		t.Errorf("expected login hint, got %q", stderr.String())
	}
}

func TestDispatcher_NotLoggedInMutationRefuses(t *testing.T) {
	isolateConfig(t)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, notLoggedInFactory)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"done", "1"}, &stdout, &stderr)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: not logged in (run: todotree login)\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FactoryFailure(t *testing.T) {
	isolateConfig(t)
	factory := func(ctx context.Context, cfg *config.Config) (*commands.Kit, error) {
		return nil, errors.New("token store corrupted")
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"tree"}, &stdout, &stderr)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.Contains(stderr.String(), "token store corrupted") {
		t.Errorf("expected the factory error surfaced, got %q", stderr.String())
	}
}
