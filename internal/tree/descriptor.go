package tree

import (
	"fmt"

	"todotree/internal/todo"
)

// Descriptor tells a display host how to render one node. Computing a
// descriptor is a pure projection of the node; it never performs I/O.
type Descriptor struct {
	// Label is the full display text.
	Label string
	// Highlights are [start, end) byte ranges of Label the host sets
	// off as distinct visual spans.
	Highlights [][2]int
	// Tooltip is markdown shown on hover, empty when the node has none.
	Tooltip string
	// Tag classifies the node for host-side filtering and styling.
	Tag string
	// Command names the host action bound to activating the node.
	Command string
	// Expandable marks nodes that can have children.
	Expandable bool
	// Collapsed is the initial collapse state of an expandable node.
	Collapsed bool
}

// Host actions referenced by descriptors.
const (
	CommandCreateList  = "create-list"
	CommandOpenDetails = "open-details"
)

// CreateListLabel is the affordance label for the create-list leaf.
const CreateListLabel = "+ New list"

// Describe computes the display descriptor for one node.
func Describe(node Node) Descriptor {
	switch n := node.(type) {
	case ListNode:
		return describeList(n)
	case GroupNode:
		return describeGroup(n)
	case TaskNode:
		return describeTask(n)
	case CreateListNode:
		return Descriptor{
			Label:   CreateListLabel,
			Tag:     "create",
			Command: CommandCreateList,
		}
	default:
		panic(fmt.Sprintf("unknown node kind %T", node))
	}
}

func describeList(n ListNode) Descriptor {
	tag := "list"
	if n.List.IsDefault() {
		tag = "list:default"
	}
	return Descriptor{
		Label:      n.List.DisplayName,
		Tag:        tag,
		Expandable: true,
		Collapsed:  true,
	}
}

func describeGroup(n GroupNode) Descriptor {
	label := " " + n.Kind.String() + " "
	return Descriptor{
		Label:      label,
		Highlights: [][2]int{{0, len(label)}},
		Tag:        "group:" + string(n.Kind),
		Expandable: true,
		Collapsed:  n.Kind == GroupCompleted,
	}
}

func describeTask(n TaskNode) Descriptor {
	task := n.Task
	label := task.Title
	var highlights [][2]int
	if suffix := dueSuffix(task); suffix != "" {
		start := len(label)
		label += suffix
		highlights = [][2]int{{start, len(label)}}
	}
	return Descriptor{
		Label:      label,
		Highlights: highlights,
		Tooltip:    taskTooltip(task),
		Tag:        taskTag(task),
		Command:    CommandOpenDetails,
	}
}

// dueSuffix renders the trailing due-date span, or "" when the task has
// no usable due date. Midnight due times render date-only.
func dueSuffix(task todo.Task) string {
	if task.DueDateTime == nil {
		return ""
	}
	tm, ok := task.DueDateTime.Time()
	if !ok {
		return ""
	}
	if tm.Hour() == 0 && tm.Minute() == 0 {
		return "  due " + tm.Format("Jan 2")
	}
	return "  due " + tm.Format("Jan 2 15:04")
}

// taskTooltip builds the hover text: the title emphasized, then the note
// when present.
func taskTooltip(task todo.Task) string {
	tip := "**" + task.Title + "**"
	if note := task.Note(); note != "" {
		tip += "\n\n" + note
	}
	return tip
}

// taskTag encodes completion and importance together, e.g.
// "task:completed:high".
func taskTag(task todo.Task) string {
	status := "open"
	if task.Completed() {
		status = "completed"
	}
	importance := "normal"
	if task.Important() {
		importance = "high"
	}
	return "task:" + status + ":" + importance
}
