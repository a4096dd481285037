package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// TaskRef addresses one displayed task: a 1-based task number with an
// optional list letter. Plain digits address the default list; a
// letter prefix (a1, b12) addresses a lettered list.
type TaskRef struct {
	Letter    rune // 0 if no letter, 'a'-'z' otherwise
	TaskNum   int  // 1-based task number
	HasLetter bool // true if a list letter was provided
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a single reference token, "12" or "a12".
func ParseTaskRef(arg string) (TaskRef, error) {
	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{TaskNum: num}, nil
	}

	if len(arg) > 1 && isLetter(rune(arg[0])) && isAllDigits(arg[1:]) {
		num, err := strconv.Atoi(arg[1:])
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Letter: rune(arg[0]), TaskNum: num, HasLetter: true}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// ParseTaskRefs parses a batch of references. Every token must stand
// alone: "a1 2 b3" is three references, while a bare letter is an
// error.
func ParseTaskRefs(args []string) ([]TaskRef, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}
	refs := make([]TaskRef, 0, len(args))
	for _, arg := range args {
		ref, err := ParseTaskRef(arg)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isLetter returns true if r is a lowercase letter a-z.
func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}
