package todo

import "net/url"

// FilterOp is the status comparison used in a filtered task query.
type FilterOp string

const (
	// OpEq selects tasks whose status equals completed.
	OpEq FilterOp = "eq"
	// OpNe selects tasks whose status differs from completed.
	OpNe FilterOp = "ne"
)

// ListsPath addresses the task-list collection.
func ListsPath() string { return "/lists" }

// ListPath addresses one task list.
func ListPath(listID string) string {
	return "/lists/" + url.PathEscape(listID)
}

// AllTasksPath addresses a list's entire task collection.
func AllTasksPath(listID string) string {
	return ListPath(listID) + "/tasks"
}

// TasksPath addresses a list's task collection filtered by completion
// status, e.g. /lists/L1/tasks?filter=status+ne+completed.
func TasksPath(listID string, op FilterOp) string {
	q := url.Values{"filter": []string{"status " + string(op) + " completed"}}
	return AllTasksPath(listID) + "?" + q.Encode()
}

// TaskPath addresses one task within a list.
func TaskPath(listID, taskID string) string {
	return AllTasksPath(listID) + "/" + url.PathEscape(taskID)
}
