package commands

import (
	"context"
	"strings"

	"todotree/internal/todo"
	"todotree/internal/tree"
)

// resolver maps the references a user types to lists and tasks. It
// fetches each collection at most once, so every reference in one
// command resolves against the same snapshot.
type resolver struct {
	kit   *Kit
	lists []todo.TaskList
	tasks map[string][]tree.TaskNode // listID -> tasks in display order
}

func newResolver(kit *Kit) *resolver {
	return &resolver{kit: kit, tasks: make(map[string][]tree.TaskNode)}
}

// allLists returns every task list in service order.
func (r *resolver) allLists(ctx context.Context) ([]todo.TaskList, error) {
	if r.lists != nil {
		return r.lists, nil
	}
	nodes, err := r.kit.Tree.RootChildren(ctx)
	if err != nil {
		return nil, err
	}
	lists := make([]todo.TaskList, 0, len(nodes))
	for _, node := range nodes {
		if ln, ok := node.(tree.ListNode); ok {
			lists = append(lists, ln.List)
		}
	}
	r.lists = lists
	return lists, nil
}

// defaultList returns the service's built-in list, falling back to the
// first list when the service marks none.
func (r *resolver) defaultList(ctx context.Context) (todo.TaskList, error) {
	lists, err := r.allLists(ctx)
	if err != nil {
		return todo.TaskList{}, err
	}
	for _, list := range lists {
		if list.IsDefault() {
			return list, nil
		}
	}
	if len(lists) > 0 {
		return lists[0], nil
	}
	return todo.TaskList{}, usererrf("no lists found")
}

// listByName finds a list by display name, case-insensitive and
// trimmed.
func (r *resolver) listByName(ctx context.Context, name string) (todo.TaskList, error) {
	lists, err := r.allLists(ctx)
	if err != nil {
		return todo.TaskList{}, err
	}
	name = strings.TrimSpace(name)
	var matches []todo.TaskList
	for _, list := range lists {
		if strings.EqualFold(strings.TrimSpace(list.DisplayName), name) {
			matches = append(matches, list)
		}
	}
	switch len(matches) {
	case 0:
		return todo.TaskList{}, usererrf("list not found: %s", name)
	case 1:
		return matches[0], nil
	default:
		return todo.TaskList{}, usererrf("ambiguous list name: %s", name)
	}
}

// listByLetter finds the lettered list shown in the tree. Letters run
// a-z over the non-default lists in service order.
func (r *resolver) listByLetter(ctx context.Context, letter rune) (todo.TaskList, error) {
	lists, err := r.allLists(ctx)
	if err != nil {
		return todo.TaskList{}, err
	}
	current := 'a'
	for _, list := range lists {
		if list.IsDefault() {
			continue
		}
		if current == letter {
			return list, nil
		}
		current++
		if current > 'z' {
			break
		}
	}
	return todo.TaskList{}, usererrf("list letter not found: %c", letter)
}

// numberedTasks returns a list's tasks in display order: in progress
// first, then completed. Task numbers are 1-based positions here.
func (r *resolver) numberedTasks(ctx context.Context, list todo.TaskList) ([]tree.TaskNode, error) {
	if tasks, ok := r.tasks[list.ID]; ok {
		return tasks, nil
	}
	var tasks []tree.TaskNode
	for _, kind := range []tree.GroupKind{tree.GroupInProgress, tree.GroupCompleted} {
		nodes, err := r.kit.Tree.Children(ctx, tree.GroupNode{List: list, Kind: kind})
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			tasks = append(tasks, node.(tree.TaskNode))
		}
	}
	r.tasks[list.ID] = tasks
	return tasks, nil
}

// taskByNumber resolves a 1-based display number within a list.
func (r *resolver) taskByNumber(ctx context.Context, list todo.TaskList, num int) (tree.TaskNode, error) {
	tasks, err := r.numberedTasks(ctx, list)
	if err != nil {
		return tree.TaskNode{}, err
	}
	if num < 1 || num > len(tasks) {
		return tree.TaskNode{}, usererrf("task number out of range: %d", num)
	}
	return tasks[num-1], nil
}

// refList resolves the list a reference addresses, honoring an
// explicit --list name over the reference's letter.
func (r *resolver) refList(ctx context.Context, listName string, ref TaskRef) (todo.TaskList, error) {
	switch {
	case listName != "":
		return r.listByName(ctx, listName)
	case ref.HasLetter:
		return r.listByLetter(ctx, ref.Letter)
	default:
		return r.defaultList(ctx)
	}
}

// target resolves one reference to a task node.
func (r *resolver) target(ctx context.Context, listName string, ref TaskRef) (tree.TaskNode, error) {
	list, err := r.refList(ctx, listName, ref)
	if err != nil {
		return tree.TaskNode{}, err
	}
	return r.taskByNumber(ctx, list, ref.TaskNum)
}
