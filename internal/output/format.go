// Package output renders display descriptors for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"todotree/internal/tree"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"
)

var (
	groupColor     = color.New(color.FgCyan, color.Bold)
	dueColor       = color.New(color.FgYellow)
	completedColor = color.New(color.Faint, color.CrossedOut)
	faintColor     = color.New(color.Faint)
	urgentColor    = color.New(color.FgRed, color.Bold)
)

// FormatListHeader writes a list section header.
func FormatListHeader(w io.Writer, d tree.Descriptor) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, listTitle(d))
	fmt.Fprintln(w, ListSeparator)
}

// FormatListName writes one line for the lists command.
func FormatListName(w io.Writer, d tree.Descriptor) {
	fmt.Fprintln(w, listTitle(d))
}

// FormatGroupHeading writes a status group heading.
func FormatGroupHeading(w io.Writer, d tree.Descriptor) {
	fmt.Fprintf(w, "  %s\n", paint(groupColor, strings.TrimSpace(d.Label)))
}

// FormatTaskLine writes a task line.
// Format: "    {REF:>4}  {TITLE}[{DUE}]\n" (4 spaces indent, 4-wide
// right-aligned reference, two spaces, label). The reference is the
// task's number, prefixed with the list letter for lettered lists.
func FormatTaskLine(w io.Writer, ref string, d tree.Descriptor) {
	var titleCol, spanCol *color.Color
	switch {
	case strings.HasPrefix(d.Tag, "task:completed"):
		titleCol, spanCol = completedColor, faintColor
	case strings.HasSuffix(d.Tag, ":high"):
		titleCol, spanCol = urgentColor, dueColor
	default:
		titleCol, spanCol = nil, dueColor
	}
	fmt.Fprintf(w, "    %4s  %s\n", ref, renderSpans(d, titleCol, spanCol))
}

// FormatCreateLeaf writes the create-list affordance line.
func FormatCreateLeaf(w io.Writer, d tree.Descriptor) {
	fmt.Fprintf(w, "  %s\n", paint(faintColor, d.Label))
}

// renderSpans paints the label, giving highlighted ranges their own
// color. Highlight offsets are byte ranges into the label.
func renderSpans(d tree.Descriptor, base, span *color.Color) string {
	label := flatten(d.Label)
	if len(d.Highlights) == 0 {
		return paint(base, normalizeTitle(label))
	}
	hl := d.Highlights[0]
	return paint(base, label[:hl[0]]) + paint(span, label[hl[0]:hl[1]]) + paint(base, label[hl[1]:])
}

func listTitle(d tree.Descriptor) string {
	title := normalizeTitle(d.Label)
	if d.Tag == "list:default" {
		title += " [default]"
	}
	return title
}

func paint(c *color.Color, s string) string {
	if c == nil || s == "" {
		return s
	}
	return c.Sprint(s)
}

// flatten replaces newlines with spaces so a multi-line title stays one
// display line. Byte length is preserved, keeping highlight offsets
// valid.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// normalizeTitle normalizes a title for display.
// Empty or whitespace-only titles become "(untitled)".
func normalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
