// Package tree materializes the remote service's flat collections into a
// lazily expanded display tree: root, task lists, status groups, tasks.
// Expansion is demand-driven; the package never holds the whole tree in
// memory between calls, and every expansion yields fresh snapshots.
package tree

import (
	"fmt"
	"strings"

	"todotree/internal/todo"
)

// Node is one position in the displayed tree. The set of implementations
// is closed: ListNode, GroupNode, TaskNode, CreateListNode. Consumers
// switch over exactly these four kinds.
type Node interface {
	// Key identifies the node's tree position across refreshes. Two
	// fetches of the same position yield equal keys even though the
	// entity snapshots differ.
	Key() string

	isNode()
}

// ListNode wraps one task list.
type ListNode struct {
	List todo.TaskList
}

func (n ListNode) Key() string { return ListKey(n.List.ID) }
func (ListNode) isNode()       {}

// GroupKind selects one of a list's two status groups.
type GroupKind string

const (
	GroupInProgress GroupKind = "in-progress"
	GroupCompleted  GroupKind = "completed"
)

// String returns the group's display name.
func (k GroupKind) String() string {
	switch k {
	case GroupInProgress:
		return "In Progress"
	case GroupCompleted:
		return "Completed"
	default:
		return string(k)
	}
}

// FilterOp returns the status comparison the group's task query uses.
func (k GroupKind) FilterOp() todo.FilterOp {
	switch k {
	case GroupInProgress:
		return todo.OpNe
	case GroupCompleted:
		return todo.OpEq
	default:
		panic(fmt.Sprintf("unknown group kind %q", string(k)))
	}
}

// GroupNode is a synthetic grouping under one list. It carries only the
// owning list and the group kind; the task fetch happens when the node
// is expanded, not when it is built.
type GroupNode struct {
	List todo.TaskList
	Kind GroupKind
}

func (n GroupNode) Key() string { return GroupKey(n.List.ID, n.Kind) }
func (GroupNode) isNode()       {}

// TaskNode wraps one task snapshot together with the list it was fetched
// under. The parent reference addresses mutations and scopes refreshes.
type TaskNode struct {
	Task   todo.Task
	Parent ListNode
}

func (n TaskNode) Key() string { return TaskKey(n.Task.ID) }
func (TaskNode) isNode()       {}

// CreateListNode is the affordance leaf for creating a new list, always
// the last root child.
type CreateListNode struct{}

func (CreateListNode) Key() string { return CreateListKey }
func (CreateListNode) isNode()     {}

// Structural keys. Invalidation events carry these to name a scope.

// ListKey is the structural key of a list's subtree.
func ListKey(listID string) string { return "list/" + listID }

// GroupKey is the structural key of one status group.
func GroupKey(listID string, kind GroupKind) string {
	return "group/" + listID + "/" + string(kind)
}

// TaskKey is the structural key of one task position.
func TaskKey(taskID string) string { return "task/" + taskID }

// CreateListKey is the structural key of the create-list affordance.
const CreateListKey = "create-list"

// ScopeListID extracts the owning list id from a structural key, for
// hosts that refresh at list granularity. List and group keys name
// their list; the whole-tree key and task keys do not.
func ScopeListID(key string) (string, bool) {
	switch {
	case strings.HasPrefix(key, "list/"):
		return strings.TrimPrefix(key, "list/"), true
	case strings.HasPrefix(key, "group/"):
		rest := strings.TrimPrefix(key, "group/")
		if i := strings.LastIndexByte(rest, '/'); i > 0 {
			return rest[:i], true
		}
	}
	return "", false
}
