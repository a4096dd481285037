package commands

import (
	"errors"
	"fmt"
	"io"

	"todotree/internal/exitcode"
	"todotree/internal/gateway"
)

// userError marks a mistake in what the user typed, as opposed to a
// service failure.
type userError string

func (e userError) Error() string { return string(e) }

// usererrf builds a userError.
func usererrf(format string, args ...any) error {
	return userError(fmt.Sprintf(format, args...))
}

// fail prints err and maps it to an exit code: user mistakes exit 1,
// expired sessions exit 2, everything else is a backend failure.
func fail(errOut io.Writer, err error) int {
	var ue userError
	switch {
	case errors.As(err, &ue):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case gateway.IsUnauthenticated(err):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// requireSession refuses to run a mutation without a stored session.
func requireSession(kit *Kit, errOut io.Writer) (int, bool) {
	if kit.Ready() {
		return exitcode.Success, true
	}
	fmt.Fprintln(errOut, "error: not logged in (run: todotree login)")
	return exitcode.AuthError, false
}
