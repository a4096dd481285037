// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"todotree/internal/gateway"
	"todotree/internal/todo"
)

// ErrNotFound is returned when a resource path does not resolve.
var ErrNotFound = errors.New("not found")

// FakeGateway is an in-memory gateway.Gateway. It serves the same
// resource paths as the real service and records every call so tests
// can assert on the exact paths the core constructs.
type FakeGateway struct {
	mu    sync.Mutex
	lists []todo.TaskList
	tasks map[string][]todo.Task // listID -> tasks

	// Calls records "METHOD path" in invocation order.
	Calls []string

	// PatchBodies records the field set of every Patch in call order.
	PatchBodies []map[string]any

	// Unauthenticated makes every call fail like a missing session.
	Unauthenticated bool

	// Error injection, keyed by exact resource path.
	FetchErr  map[string]error
	PatchErr  map[string]error
	CreateErr map[string]error
	DeleteErr map[string]error
}

var _ gateway.Gateway = (*FakeGateway)(nil)

// NewFakeGateway creates an empty fake.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		tasks:     make(map[string][]todo.Task),
		FetchErr:  make(map[string]error),
		PatchErr:  make(map[string]error),
		CreateErr: make(map[string]error),
		DeleteErr: make(map[string]error),
	}
}

// AddList registers a list.
func (f *FakeGateway) AddList(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, todo.TaskList{ID: id, DisplayName: name})
}

// AddDefaultList registers the service's built-in list.
func (f *FakeGateway) AddDefaultList(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, todo.TaskList{
		ID:                id,
		DisplayName:       name,
		WellknownListName: todo.WellknownDefaultList,
	})
}

// AddTask registers an open task with normal importance.
func (f *FakeGateway) AddTask(listID, taskID, title string) {
	f.PutTask(listID, todo.Task{
		ID:         taskID,
		Title:      title,
		Status:     todo.StatusNotStarted,
		Importance: todo.ImportanceNormal,
	})
}

// PutTask registers a fully specified task.
func (f *FakeGateway) PutTask(listID string, task todo.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[listID] = append(f.tasks[listID], task)
}

// TaskByID returns a stored task snapshot for assertions.
func (f *FakeGateway) TaskByID(listID, taskID string) (todo.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks[listID] {
		if t.ID == taskID {
			return t, true
		}
	}
	return todo.Task{}, false
}

// FetchAll implements gateway.Gateway.
func (f *FakeGateway) FetchAll(ctx context.Context, path string) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "GET "+path)

	if f.Unauthenticated {
		return nil, unauthenticated()
	}
	if err := f.FetchErr[path]; err != nil {
		return nil, err
	}

	u, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	segs := pathSegments(u.Path)
	switch {
	case len(segs) == 1 && segs[0] == "lists":
		return marshalAll(f.lists)
	case len(segs) == 3 && segs[0] == "lists" && segs[2] == "tasks":
		return marshalAll(f.filteredTasks(segs[1], u.Query().Get("filter")))
	case len(segs) == 4 && segs[0] == "lists" && segs[2] == "tasks":
		for _, t := range f.tasks[segs[1]] {
			if t.ID == segs[3] {
				return marshalAll([]todo.Task{t})
			}
		}
		return nil, &gateway.HTTPError{Status: 404}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Patch implements gateway.Gateway.
func (f *FakeGateway) Patch(ctx context.Context, path string, fields map[string]any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "PATCH "+path)
	f.PatchBodies = append(f.PatchBodies, fields)

	if f.Unauthenticated {
		return nil, unauthenticated()
	}
	if err := f.PatchErr[path]; err != nil {
		return nil, err
	}

	segs := pathSegments(path)
	if len(segs) != 4 || segs[0] != "lists" || segs[2] != "tasks" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	tasks := f.tasks[segs[1]]
	for i := range tasks {
		if tasks[i].ID == segs[3] {
			if err := applyFields(&tasks[i], fields); err != nil {
				return nil, err
			}
			return json.Marshal(tasks[i])
		}
	}
	return nil, &gateway.HTTPError{Status: 404}
}

// Create implements gateway.Gateway.
func (f *FakeGateway) Create(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "POST "+path)

	if f.Unauthenticated {
		return nil, unauthenticated()
	}
	if err := f.CreateErr[path]; err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	segs := pathSegments(path)
	switch {
	case len(segs) == 1 && segs[0] == "lists":
		var list todo.TaskList
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		list.ID = uuid.NewString()
		f.lists = append(f.lists, list)
		return json.Marshal(list)
	case len(segs) == 3 && segs[0] == "lists" && segs[2] == "tasks":
		var task todo.Task
		if err := json.Unmarshal(data, &task); err != nil {
			return nil, err
		}
		task.ID = uuid.NewString()
		if task.Status == "" {
			task.Status = todo.StatusNotStarted
		}
		if task.Importance == "" {
			task.Importance = todo.ImportanceNormal
		}
		f.tasks[segs[1]] = append(f.tasks[segs[1]], task)
		return json.Marshal(task)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Delete implements gateway.Gateway.
func (f *FakeGateway) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "DELETE "+path)

	if f.Unauthenticated {
		return unauthenticated()
	}
	if err := f.DeleteErr[path]; err != nil {
		return err
	}

	segs := pathSegments(path)
	switch {
	case len(segs) == 2 && segs[0] == "lists":
		for i, l := range f.lists {
			if l.ID == segs[1] {
				f.lists = append(f.lists[:i], f.lists[i+1:]...)
				delete(f.tasks, segs[1])
				return nil
			}
		}
	case len(segs) == 4 && segs[0] == "lists" && segs[2] == "tasks":
		tasks := f.tasks[segs[1]]
		for i, t := range tasks {
			if t.ID == segs[3] {
				f.tasks[segs[1]] = append(tasks[:i], tasks[i+1:]...)
				return nil
			}
		}
	}
	return &gateway.HTTPError{Status: 404}
}

func (f *FakeGateway) filteredTasks(listID, filter string) []todo.Task {
	tasks := f.tasks[listID]
	if filter == "" {
		return tasks
	}
	parts := strings.Fields(filter)
	if len(parts) != 3 || parts[0] != "status" || parts[2] != "completed" {
		return nil
	}
	wantCompleted := parts[1] == "eq"
	var out []todo.Task
	for _, t := range tasks {
		if t.Completed() == wantCompleted {
			out = append(out, t)
		}
	}
	return out
}

// applyFields merges a partial update onto a task the way the service
// would: present fields overwrite, null clears.
func applyFields(task *todo.Task, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, task)
}

func unauthenticated() error {
	return &gateway.HTTPError{Status: 401, Code: "InvalidAuthenticationToken"}
}

func pathSegments(path string) []string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		if un, err := url.PathUnescape(s); err == nil {
			segs[i] = un
		}
	}
	return segs
}

func marshalAll[T any](items []T) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		out = append(out, json.RawMessage(data))
	}
	return out, nil
}
