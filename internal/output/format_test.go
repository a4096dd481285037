package output_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/fatih/color"

	"todotree/internal/output"
	"todotree/internal/todo"
	"todotree/internal/tree"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func taskDescriptor(task todo.Task) tree.Descriptor {
	return tree.Describe(tree.TaskNode{Task: task})
}

func TestFormatTaskLineAlignsReferences(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"1", "       1  Pay rent\n"},
		{"12", "      12  Pay rent\n"},
		{"a1", "      a1  Pay rent\n"},
		{"b12", "     b12  Pay rent\n"},
	}
	d := taskDescriptor(todo.Task{Title: "Pay rent", Status: todo.StatusNotStarted})
	for _, tt := range tests {
		var buf bytes.Buffer
		output.FormatTaskLine(&buf, tt.ref, d)
		if buf.String() != tt.want {
			t.Errorf("ref %q: expected %q, got %q", tt.ref, tt.want, buf.String())
		}
	}
}

func TestFormatTaskLineKeepsDueSpanText(t *testing.T) {
	d := taskDescriptor(todo.Task{
		Title:  "Milk",
		Status: todo.StatusNotStarted,
		DueDateTime: &todo.DateTimeInfo{
			DateTime: "2026-03-01T00:00:00",
			TimeZone: "UTC",
		},
	})

	var buf bytes.Buffer
	output.FormatTaskLine(&buf, "a1", d)

	want := "      a1  Milk  due Mar 1\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatTaskLineUntitled(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTaskLine(&buf, "1", taskDescriptor(todo.Task{Title: "   "}))

	want := "       1  (untitled)\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatTaskLineFlattensMultilineTitles(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTaskLine(&buf, "1", taskDescriptor(todo.Task{Title: "first\nsecond"}))

	want := "       1  first second\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatListHeader(t *testing.T) {
	var buf bytes.Buffer
	d := tree.Describe(tree.ListNode{List: todo.TaskList{
		ID:                "L0",
		DisplayName:       "My Tasks",
		WellknownListName: todo.WellknownDefaultList,
	}})
	output.FormatListHeader(&buf, d)

	want := "------------\nMy Tasks [default]\n------------\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatListName(t *testing.T) {
	var buf bytes.Buffer
	d := tree.Describe(tree.ListNode{List: todo.TaskList{ID: "L1", DisplayName: "Groceries"}})
	output.FormatListName(&buf, d)

	if buf.String() != "Groceries\n" {
		t.Errorf("expected plain name, got %q", buf.String())
	}
}

func TestFormatGroupHeadingTrimsPadding(t *testing.T) {
	var buf bytes.Buffer
	d := tree.Describe(tree.GroupNode{List: todo.TaskList{ID: "L1"}, Kind: tree.GroupInProgress})
	output.FormatGroupHeading(&buf, d)

	if buf.String() != "  In Progress\n" {
		t.Errorf("expected trimmed heading, got %q", buf.String())
	}
}

func TestFormatCreateLeaf(t *testing.T) {
	var buf bytes.Buffer
	output.FormatCreateLeaf(&buf, tree.Describe(tree.CreateListNode{}))

	if buf.String() != "  + New list\n" {
		t.Errorf("expected create affordance, got %q", buf.String())
	}
}
