package panel

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todotree/internal/invalidate"
	"todotree/internal/mutation"
	"todotree/internal/testutil"
	"todotree/internal/todo"
)

func seededHandler(t *testing.T) (*Handler, *testutil.FakeGateway) {
	t.Helper()
	fake := testutil.NewFakeGateway()
	fake.AddList("L1", "Groceries")
	fake.PutTask("L1", todo.Task{
		ID:          "T1",
		Title:       "Milk",
		Status:      todo.StatusNotStarted,
		Importance:  todo.ImportanceNormal,
		Body:        &todo.ItemBody{Content: "2% if they have it", ContentType: "text"},
		DueDateTime: &todo.DateTimeInfo{DateTime: "2026-01-05T00:00:00", TimeZone: "UTC"},
	})
	coord := mutation.NewCoordinator(fake, invalidate.NewBus())
	task, _ := fake.TaskByID("L1", "T1")
	return NewHandler(coord, "L1", task), fake
}

func TestReadyRepliesWithSnapshot(t *testing.T) {
	h, fake := seededHandler(t)

	reply, err := h.Handle(context.Background(), Message{Command: CommandReady})
	require.NoError(t, err)
	require.NotNil(t, reply)

	assert.Equal(t, CommandUpdate, reply.Command)
	require.NotNil(t, reply.Body)
	assert.Equal(t, TaskForm{
		ID:      "T1",
		ListID:  "L1",
		Title:   "Milk",
		Note:    "2% if they have it",
		DueDate: "2026-01-05",
	}, *reply.Body)
	assert.Empty(t, fake.Calls, "expected ready to be answered without a service call")
}

func TestUpdatePatchesOnlyChangedFields(t *testing.T) {
	h, fake := seededHandler(t)
	form := h.Form()
	form.Title = "Oat milk"

	reply, err := h.Handle(context.Background(), Message{Command: CommandUpdate, Body: &form})
	require.NoError(t, err)
	assert.Nil(t, reply)

	require.Equal(t, []string{"PATCH /lists/L1/tasks/T1"}, fake.Calls)
	assert.Equal(t, map[string]any{"title": "Oat milk"}, fake.PatchBodies[0])

	stored, _ := fake.TaskByID("L1", "T1")
	assert.Equal(t, "Oat milk", stored.Title)
	assert.Equal(t, "2% if they have it", stored.Note(), "expected note untouched")

	// Saving the unchanged form again issues no patch.
	_, err = h.Handle(context.Background(), Message{Command: CommandUpdate, Body: &form})
	require.NoError(t, err)
	assert.Len(t, fake.Calls, 1)
}

func TestUpdateClearsDueDate(t *testing.T) {
	h, fake := seededHandler(t)
	form := h.Form()
	form.DueDate = ""

	_, err := h.Handle(context.Background(), Message{Command: CommandUpdate, Body: &form})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"dueDateTime": nil}, fake.PatchBodies[0])
	stored, _ := fake.TaskByID("L1", "T1")
	assert.Nil(t, stored.DueDateTime)
}

func TestReadyAfterUpdateReflectsEdits(t *testing.T) {
	h, _ := seededHandler(t)
	form := h.Form()
	form.Title = "Oat milk"
	form.Note = "1 carton"

	_, err := h.Handle(context.Background(), Message{Command: CommandUpdate, Body: &form})
	require.NoError(t, err)

	reply, err := h.Handle(context.Background(), Message{Command: CommandReady})
	require.NoError(t, err)
	assert.Equal(t, "Oat milk", reply.Body.Title)
	assert.Equal(t, "1 carton", reply.Body.Note)
}

func TestUpdateFailureKeepsSnapshot(t *testing.T) {
	h, fake := seededHandler(t)
	fake.PatchErr["/lists/L1/tasks/T1"] = errors.New("connection reset")
	form := h.Form()
	form.Title = "Oat milk"

	_, err := h.Handle(context.Background(), Message{Command: CommandUpdate, Body: &form})
	require.Error(t, err)
	assert.Equal(t, "Milk", h.Form().Title, "expected snapshot unchanged after failed save")
}

func TestUpdateWithoutBody(t *testing.T) {
	h, _ := seededHandler(t)
	_, err := h.Handle(context.Background(), Message{Command: CommandUpdate})
	assert.Error(t, err)
}

func TestUnknownCommand(t *testing.T) {
	h, _ := seededHandler(t)
	_, err := h.Handle(context.Background(), Message{Command: "refresh"})
	assert.Error(t, err)
}

func TestMessageWireShape(t *testing.T) {
	ready, err := json.Marshal(Message{Command: CommandReady})
	require.NoError(t, err)
	assert.JSONEq(t, `{"command":"ready"}`, string(ready))

	update, err := json.Marshal(Message{Command: CommandUpdate, Body: &TaskForm{
		ID:      "T1",
		ListID:  "L1",
		Title:   "Milk",
		Note:    "note",
		DueDate: "2026-01-05",
	}})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"command": "update",
		"body": {
			"id": "T1",
			"listId": "L1",
			"title": "Milk",
			"note": "note",
			"dueDate": "2026-01-05"
		}
	}`, string(update))
}

func TestFormFromTaskWithoutOptionalFields(t *testing.T) {
	form := FormFromTask("L1", todo.Task{ID: "T1", Title: "Milk"})
	assert.Equal(t, TaskForm{ID: "T1", ListID: "L1", Title: "Milk"}, form)

	malformed := todo.Task{
		ID:          "T1",
		Title:       "Milk",
		DueDateTime: &todo.DateTimeInfo{DateTime: "yesterday"},
	}
	assert.Empty(t, FormFromTask("L1", malformed).DueDate)
}
