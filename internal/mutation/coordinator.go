// Package mutation coordinates write operations against the task
// service and broadcasts the staleness each one causes. Reads stay in
// the tree package; everything that changes remote state goes through
// the Coordinator so invalidation scoping lives in one place.
package mutation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sourcegraph/conc"

	"todotree/internal/gateway"
	"todotree/internal/invalidate"
	"todotree/internal/todo"
	"todotree/internal/tree"
)

// Kind selects the field a toggle flips.
type Kind string

const (
	ToggleCompletion Kind = "completion"
	ToggleImportance Kind = "importance"
)

// Result pairs one batch target with the outcome of its update.
type Result struct {
	Target tree.TaskNode
	Err    error
}

// Coordinator issues service mutations and publishes the invalidations
// they imply. Methods are safe for concurrent use.
type Coordinator struct {
	gw  gateway.Gateway
	bus *invalidate.Bus
}

// NewCoordinator builds a coordinator over the gateway capability.
func NewCoordinator(gw gateway.Gateway, bus *invalidate.Bus) *Coordinator {
	return &Coordinator{gw: gw, bus: bus}
}

// Toggle flips one field on every target concurrently. Targets are
// independent: a failed update neither stops nor rolls back the others,
// and every successful update publishes its own list-scoped
// invalidation. Results come back in target order.
func (c *Coordinator) Toggle(ctx context.Context, kind Kind, targets []tree.TaskNode) []Result {
	results := make([]Result, len(targets))
	var wg conc.WaitGroup
	for i, target := range targets {
		i, target := i, target // per-iteration copies: module builds with go < 1.22
		wg.Go(func() {
			results[i] = Result{Target: target, Err: c.toggleOne(ctx, kind, target)}
		})
	}
	wg.Wait()
	return results
}

func (c *Coordinator) toggleOne(ctx context.Context, kind Kind, target tree.TaskNode) error {
	fields, err := toggleFields(kind, target.Task)
	if err != nil {
		return err
	}
	path := todo.TaskPath(target.Parent.List.ID, target.Task.ID)
	if _, err := c.gw.Patch(ctx, path, fields); err != nil {
		return fmt.Errorf("update task %s: %w", target.Task.ID, err)
	}
	c.bus.Publish(invalidate.Event{Key: target.Parent.Key()})
	return nil
}

// toggleFields derives the patch from the target's snapshot, so a stale
// snapshot toggles relative to what the user saw.
func toggleFields(kind Kind, task todo.Task) (map[string]any, error) {
	switch kind {
	case ToggleCompletion:
		return map[string]any{"status": task.Status.Toggled()}, nil
	case ToggleImportance:
		return map[string]any{"importance": task.Importance.Toggled()}, nil
	default:
		return nil, fmt.Errorf("unknown toggle kind %q", kind)
	}
}

// FieldEdit is a partial task edit. Nil fields are left untouched; an
// empty Due clears the due date. Due uses the date-only form
// "2006-01-02".
type FieldEdit struct {
	Title *string
	Note  *string
	Due   *string
}

func (e FieldEdit) fields() map[string]any {
	fields := make(map[string]any)
	if e.Title != nil {
		fields["title"] = *e.Title
	}
	if e.Note != nil {
		fields["body"] = map[string]any{
			"content":     *e.Note,
			"contentType": "text",
		}
	}
	if e.Due != nil {
		if *e.Due == "" {
			fields["dueDateTime"] = nil
		} else {
			fields["dueDateTime"] = map[string]any{
				"dateTime": *e.Due + "T00:00:00",
				"timeZone": "UTC",
			}
		}
	}
	return fields
}

// EditFields patches exactly the edited fields on one task. An empty
// edit is a no-op.
func (c *Coordinator) EditFields(ctx context.Context, listID, taskID string, edit FieldEdit) error {
	fields := edit.fields()
	if len(fields) == 0 {
		return nil
	}
	if _, err := c.gw.Patch(ctx, todo.TaskPath(listID, taskID), fields); err != nil {
		return fmt.Errorf("update task %s: %w", taskID, err)
	}
	c.bus.Publish(invalidate.Event{Key: tree.ListKey(listID)})
	return nil
}

// CreateList makes a new task list and returns it as stored.
func (c *Coordinator) CreateList(ctx context.Context, name string) (todo.TaskList, error) {
	raw, err := c.gw.Create(ctx, todo.ListsPath(), map[string]any{"displayName": name})
	if err != nil {
		return todo.TaskList{}, fmt.Errorf("create list: %w", err)
	}
	var list todo.TaskList
	if err := json.Unmarshal(raw, &list); err != nil {
		return todo.TaskList{}, fmt.Errorf("decode created list: %w", err)
	}
	c.bus.Publish(invalidate.Everything)
	return list, nil
}

// CreateTask adds an open task to a list. An empty due leaves the task
// without a due date.
func (c *Coordinator) CreateTask(ctx context.Context, listID, title, due string) (todo.Task, error) {
	payload := map[string]any{"title": title}
	if due != "" {
		payload["dueDateTime"] = map[string]any{
			"dateTime": due + "T00:00:00",
			"timeZone": "UTC",
		}
	}
	raw, err := c.gw.Create(ctx, todo.AllTasksPath(listID), payload)
	if err != nil {
		return todo.Task{}, fmt.Errorf("create task: %w", err)
	}
	var task todo.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return todo.Task{}, fmt.Errorf("decode created task: %w", err)
	}
	c.bus.Publish(invalidate.Event{Key: tree.ListKey(listID)})
	return task, nil
}

// DeleteTask removes one task.
func (c *Coordinator) DeleteTask(ctx context.Context, listID, taskID string) error {
	if err := c.gw.Delete(ctx, todo.TaskPath(listID, taskID)); err != nil {
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}
	c.bus.Publish(invalidate.Event{Key: tree.ListKey(listID)})
	return nil
}

// DeleteList removes a whole list with its tasks.
func (c *Coordinator) DeleteList(ctx context.Context, listID string) error {
	if err := c.gw.Delete(ctx, todo.ListPath(listID)); err != nil {
		return fmt.Errorf("delete list %s: %w", listID, err)
	}
	c.bus.Publish(invalidate.Everything)
	return nil
}
