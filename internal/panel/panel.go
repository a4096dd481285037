// Package panel implements the message protocol behind a task details
// form. The host owns the channel; this package owns what flows over
// it: the form announces itself with a ready message, receives the
// editable snapshot, and posts the snapshot back when the user saves.
package panel

import (
	"context"
	"fmt"

	"todotree/internal/mutation"
	"todotree/internal/todo"
)

// Commands exchanged with the form.
const (
	CommandReady  = "ready"
	CommandUpdate = "update"
)

// TaskForm is the editable task snapshot. DueDate uses the date-only
// form "2006-01-02"; empty means no due date.
type TaskForm struct {
	ID      string `json:"id"`
	ListID  string `json:"listId"`
	Title   string `json:"title"`
	Note    string `json:"note"`
	DueDate string `json:"dueDate"`
}

// Message is one envelope on the panel channel.
type Message struct {
	Command string    `json:"command"`
	Body    *TaskForm `json:"body,omitempty"`
}

// FormFromTask projects a task snapshot into its editable form.
func FormFromTask(listID string, task todo.Task) TaskForm {
	form := TaskForm{
		ID:     task.ID,
		ListID: listID,
		Title:  task.Title,
		Note:   task.Note(),
	}
	if task.DueDateTime != nil {
		form.DueDate = task.DueDateTime.DateOnly()
	}
	return form
}

// Editor is the mutation capability the panel needs.
type Editor interface {
	EditFields(ctx context.Context, listID, taskID string, edit mutation.FieldEdit) error
}

// Handler drives one details form for one task.
type Handler struct {
	editor Editor
	form   TaskForm
}

// NewHandler builds a handler seeded with the task snapshot the form
// was opened on.
func NewHandler(editor Editor, listID string, task todo.Task) *Handler {
	return &Handler{editor: editor, form: FormFromTask(listID, task)}
}

// Form returns the handler's current snapshot.
func (h *Handler) Form() TaskForm { return h.form }

// Handle processes one inbound message and returns the reply to post
// back, or nil when none is needed. A ready message gets the current
// snapshot; an update message patches exactly the fields the user
// changed, addressed by the ids the form sent.
func (h *Handler) Handle(ctx context.Context, msg Message) (*Message, error) {
	switch msg.Command {
	case CommandReady:
		form := h.form
		return &Message{Command: CommandUpdate, Body: &form}, nil
	case CommandUpdate:
		if msg.Body == nil {
			return nil, fmt.Errorf("update message without body")
		}
		return nil, h.applyUpdate(ctx, *msg.Body)
	default:
		return nil, fmt.Errorf("unknown panel command %q", msg.Command)
	}
}

func (h *Handler) applyUpdate(ctx context.Context, form TaskForm) error {
	var edit mutation.FieldEdit
	if form.Title != h.form.Title {
		edit.Title = &form.Title
	}
	if form.Note != h.form.Note {
		edit.Note = &form.Note
	}
	if form.DueDate != h.form.DueDate {
		edit.Due = &form.DueDate
	}
	if err := h.editor.EditFields(ctx, form.ListID, form.ID, edit); err != nil {
		return fmt.Errorf("save task details: %w", err)
	}
	h.form = form
	return nil
}
