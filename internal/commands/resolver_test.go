package commands

import (
	"context"
	"strings"
	"testing"

	"todotree/internal/testutil"
	"todotree/internal/todo"
)

func resolverFixture() (*testutil.FakeGateway, *resolver) {
	fake := testutil.NewFakeGateway()
	fake.AddDefaultList("L0", "My Tasks")
	fake.AddList("L1", "Groceries")
	fake.AddList("L2", "Projects")
	fake.AddTask("L1", "T1", "Milk")
	fake.PutTask("L1", todo.Task{ID: "T2", Title: "Eggs", Status: todo.StatusCompleted})
	fake.AddTask("L1", "T3", "Bread")
	return fake, newResolver(NewKit(fake))
}

func TestResolverDefaultList(t *testing.T) {
	_, r := resolverFixture()

	list, err := r.defaultList(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if list.ID != "L0" {
		t.Errorf("expected the wellknown default, got %q", list.ID)
	}
}

func TestResolverDefaultListFallsBackToFirst(t *testing.T) {
	fake := testutil.NewFakeGateway()
	fake.AddList("L1", "Groceries")
	fake.AddList("L2", "Projects")
	r := newResolver(NewKit(fake))

	list, err := r.defaultList(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if list.ID != "L1" {
		t.Errorf("expected the first list when none is marked default, got %q", list.ID)
	}
}

func TestResolverListByNameIsAmbiguousOnDuplicates(t *testing.T) {
	fake := testutil.NewFakeGateway()
	fake.AddList("L1", "Groceries")
	fake.AddList("L2", "groceries ")
	r := newResolver(NewKit(fake))

	_, err := r.listByName(context.Background(), "Groceries")
	if err == nil || !strings.Contains(err.Error(), "ambiguous list name") {
		t.Errorf("expected ambiguity error, got %v", err)
	}
}

func TestResolverListByLetterSkipsDefault(t *testing.T) {
	_, r := resolverFixture()

	list, err := r.listByLetter(context.Background(), 'b')
	if err != nil {
		t.Fatal(err)
	}
	if list.ID != "L2" {
		t.Errorf("expected the second non-default list for b, got %q", list.ID)
	}

	if _, err := r.listByLetter(context.Background(), 'c'); err == nil {
		t.Error("expected error for a letter past the last list")
	}
}

func TestResolverNumbersSpanBothGroups(t *testing.T) {
	_, r := resolverFixture()
	ctx := context.Background()
	list := todo.TaskList{ID: "L1", DisplayName: "Groceries"}

	// Display order: open tasks first, completed after, numbered through.
	wantOrder := []string{"T1", "T3", "T2"}
	for i, want := range wantOrder {
		node, err := r.taskByNumber(ctx, list, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if node.Task.ID != want {
			t.Errorf("number %d: expected %s, got %s", i+1, want, node.Task.ID)
		}
		if node.Parent.List.ID != "L1" {
			t.Errorf("number %d: expected parent list carried, got %q", i+1, node.Parent.List.ID)
		}
	}

	if _, err := r.taskByNumber(ctx, list, 4); err == nil {
		t.Error("expected out-of-range error past the last task")
	}
}

func TestResolverResolvesAgainstOneSnapshot(t *testing.T) {
	fake, r := resolverFixture()
	ctx := context.Background()
	list := todo.TaskList{ID: "L1", DisplayName: "Groceries"}

	if _, err := r.taskByNumber(ctx, list, 1); err != nil {
		t.Fatal(err)
	}
	fetches := len(fake.Calls)

	// New remote tasks do not shift references already handed out.
	fake.AddTask("L1", "T4", "Butter")
	if _, err := r.taskByNumber(ctx, list, 4); err == nil {
		t.Error("expected the snapshot to stay fixed within one command")
	}
	if len(fake.Calls) != fetches {
		t.Errorf("expected no refetch, calls grew from %d to %d", fetches, len(fake.Calls))
	}
}

func TestResolverRefListPrecedence(t *testing.T) {
	_, r := resolverFixture()
	ctx := context.Background()

	// An explicit --list name wins over the reference letter.
	list, err := r.refList(ctx, "Projects", TaskRef{Letter: 'a', HasLetter: true, TaskNum: 1})
	if err != nil {
		t.Fatal(err)
	}
	if list.ID != "L2" {
		t.Errorf("expected the named list, got %q", list.ID)
	}

	list, err = r.refList(ctx, "", TaskRef{Letter: 'a', HasLetter: true, TaskNum: 1})
	if err != nil {
		t.Fatal(err)
	}
	if list.ID != "L1" {
		t.Errorf("expected the lettered list, got %q", list.ID)
	}

	list, err = r.refList(ctx, "", TaskRef{TaskNum: 1})
	if err != nil {
		t.Fatal(err)
	}
	if list.ID != "L0" {
		t.Errorf("expected the default list, got %q", list.ID)
	}
}
