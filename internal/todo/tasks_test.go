package todo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// memSaver records the last saved collections.
type memSaver struct {
	tasks      []Task
	categories []Category
	saves      int
	err        error
}

func (s *memSaver) SaveTasks(_ context.Context, tasks []Task) error {
	s.saves++
	if s.err != nil {
		return s.err
	}
	s.tasks = tasks
	return nil
}

func (s *memSaver) SaveCategories(_ context.Context, categories []Category) error {
	s.saves++
	if s.err != nil {
		return s.err
	}
	s.categories = categories
	return nil
}

type eventLog struct {
	events []Event
}

func (l *eventLog) Notify(e Event) {
	l.events = append(l.events, e)
}

func (l *eventLog) last() Event {
	if len(l.events) == 0 {
		return Event{}
	}
	return l.events[len(l.events)-1]
}

// fixedClock returns the same instant on every call.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestRepo(t *testing.T, initial ...Task) (*TaskRepository, *memSaver, *eventLog) {
	t.Helper()
	saver := &memSaver{}
	events := &eventLog{}
	clock := fixedClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	repo := NewTaskRepository(initial, saver, WithNotifier(events), WithClock(clock))
	return repo, saver, events
}

func TestCreatePrependsWithUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo, saver, events := newTestRepo(t)

	seen := map[ID]bool{}
	for i, title := range []string{"one", "two", "three"} {
		task, err := repo.Create(ctx, TaskFields{Title: title, Category: "work", Priority: PriorityLow})
		if err != nil {
			t.Fatalf("Create(%s) failed: %v", title, err)
		}
		if seen[task.ID] {
			t.Fatalf("duplicate id %d", task.ID)
		}
		seen[task.ID] = true
		if got := repo.Tasks()[0]; got.ID != task.ID {
			t.Errorf("task %d not first: got %s", i, got.Title)
		}
		if task.Completed {
			t.Error("new task should not be completed")
		}
	}

	if saver.saves != 3 {
		t.Errorf("saves: got %d, want 3", saver.saves)
	}
	if diff := cmp.Diff(repo.Tasks(), saver.tasks); diff != "" {
		t.Errorf("saved tasks mismatch (-repo +saved):\n%s", diff)
	}
	if got := events.last(); got.Kind != EventTaskCreated || got.Message != "Task added successfully" {
		t.Errorf("last event: got %+v", got)
	}
}

func TestCreateIDsIncreaseWithinSameMillisecond(t *testing.T) {
	ctx := context.Background()
	existing := Task{ID: ID(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).UnixMilli()), Title: "existing"}
	repo, _, _ := newTestRepo(t, existing)

	task, err := repo.Create(ctx, TaskFields{Title: "new"})
	if err != nil {
		t.Fatal(err)
	}
	if task.ID != existing.ID+1 {
		t.Errorf("ID: got %d, want %d", task.ID, existing.ID+1)
	}
}

func TestCreateSetsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepo(t)

	task, err := repo.Create(ctx, TaskFields{Title: "x"})
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if !task.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt: got %v, want %v", task.CreatedAt, want)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo, saver, events := newTestRepo(t,
		Task{ID: 1, Title: "Old", Category: "work", Priority: PriorityLow, DueDate: "2024-01-01"},
	)

	found, err := repo.Update(ctx, 1, Patch{Title: ptr("New"), Priority: ptr(PriorityHigh)})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !found {
		t.Fatal("Update reported not found")
	}

	got, _ := repo.Get(1)
	want := Task{ID: 1, Title: "New", Category: "work", Priority: PriorityHigh, DueDate: "2024-01-01"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("updated task mismatch (-want +got):\n%s", diff)
	}
	if saver.saves != 1 {
		t.Errorf("saves: got %d, want 1", saver.saves)
	}
	if events.last().Message != "Task updated" {
		t.Errorf("message: got %q", events.last().Message)
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	repo, saver, events := newTestRepo(t, Task{ID: 1, Title: "Only"})

	found, err := repo.Update(ctx, 99, Patch{Title: ptr("x")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if found {
		t.Error("Update should report not found")
	}
	if saver.saves != 0 || len(events.events) != 0 {
		t.Errorf("no-op update should not persist or notify: saves=%d events=%d", saver.saves, len(events.events))
	}
}

func TestUpdateRejectsInvalidPatch(t *testing.T) {
	ctx := context.Background()
	repo, saver, _ := newTestRepo(t, Task{ID: 1, Title: "Keep"})

	_, err := repo.Update(ctx, 1, Patch{Title: ptr("")})
	if !errors.Is(err, ErrInvalidPatch) {
		t.Fatalf("expected ErrInvalidPatch, got %v", err)
	}
	if got, _ := repo.Get(1); got.Title != "Keep" {
		t.Errorf("title changed to %q", got.Title)
	}
	if saver.saves != 0 {
		t.Errorf("saves: got %d, want 0", saver.saves)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo, _, events := newTestRepo(t, Task{ID: 1, Title: "a"}, Task{ID: 2, Title: "b"})

	found, err := repo.Delete(ctx, 1)
	if err != nil || !found {
		t.Fatalf("Delete: found=%v err=%v", found, err)
	}
	if repo.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", repo.Len())
	}
	if _, ok := repo.Get(1); ok {
		t.Error("task 1 still present")
	}
	if events.last().Kind != EventTaskDeleted {
		t.Errorf("event: got %s", events.last().Kind)
	}
}

func TestDeleteUnknownIDLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	initial := []Task{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}
	repo, saver, _ := newTestRepo(t, initial...)

	found, err := repo.Delete(ctx, 42)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if found {
		t.Error("Delete should report not found")
	}
	if diff := cmp.Diff(initial, repo.Tasks()); diff != "" {
		t.Errorf("collection changed (-want +got):\n%s", diff)
	}
	if saver.saves != 0 {
		t.Errorf("saves: got %d, want 0", saver.saves)
	}
}

func TestToggleCompleteIsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepo(t, Task{ID: 7, Title: "t"})

	for i, want := range []bool{true, false} {
		found, err := repo.ToggleComplete(ctx, 7)
		if err != nil || !found {
			t.Fatalf("toggle %d: found=%v err=%v", i, found, err)
		}
		if got, _ := repo.Get(7); got.Completed != want {
			t.Errorf("toggle %d: completed=%v, want %v", i, got.Completed, want)
		}
	}

	found, err := repo.ToggleComplete(ctx, 8)
	if err != nil || found {
		t.Errorf("toggle unknown: found=%v err=%v", found, err)
	}
}

func TestReorder(t *testing.T) {
	tasks := []Task{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

	tests := []struct {
		name string
		ids  []ID
		want []ID
	}{
		{"full permutation", []ID{4, 3, 2, 1}, []ID{4, 3, 2, 1}},
		{"unknown ids ignored", []ID{3, 99, 1, 2, 4}, []ID{3, 1, 2, 4}},
		{"duplicates ignored", []ID{2, 2, 1, 3, 4}, []ID{2, 1, 3, 4}},
		{"missing ids keep order at end", []ID{4, 2}, []ID{4, 2, 1, 3}},
		{"empty keeps order", nil, []ID{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, saver, events := newTestRepo(t, tasks...)
			if err := repo.Reorder(context.Background(), tt.ids); err != nil {
				t.Fatalf("Reorder failed: %v", err)
			}
			var got []ID
			for _, task := range repo.Tasks() {
				got = append(got, task.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
			if saver.saves != 1 {
				t.Errorf("saves: got %d, want 1", saver.saves)
			}
			if ev := events.last(); ev.Kind != EventTasksReordered || ev.Message != "" {
				t.Errorf("event: got %+v", ev)
			}
		})
	}
}

func TestMoveBy(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepo(t, Task{ID: 1}, Task{ID: 2}, Task{ID: 3})

	if _, err := repo.MoveBy(ctx, 1, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.MoveBy(ctx, 3, -5); err != nil {
		t.Fatal(err)
	}
	var got []ID
	for _, task := range repo.Tasks() {
		got = append(got, task.ID)
	}
	if diff := cmp.Diff([]ID{3, 2, 1}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	if found, _ := repo.MoveBy(ctx, 9, 1); found {
		t.Error("MoveBy unknown id should report not found")
	}
}

func TestSaveFailureKeepsStateAndNotifies(t *testing.T) {
	ctx := context.Background()
	repo, saver, events := newTestRepo(t)
	boom := errors.New("quota exceeded")
	saver.err = boom

	task, err := repo.Create(ctx, TaskFields{Title: "unsaved"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
	if got, ok := repo.Get(task.ID); !ok || got.Title != "unsaved" {
		t.Error("in-memory state should keep the new task")
	}
	ev := events.last()
	if ev.Kind != EventSaveFailed || !errors.Is(ev.Err, boom) || ev.Message == "" {
		t.Errorf("failure event: got %+v", ev)
	}
	if len(events.events) != 1 {
		t.Errorf("events: got %d, want only the failure", len(events.events))
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	repo, _, _ := newTestRepo(t, Task{ID: 1, Title: "orig"})
	tasks := repo.Tasks()
	tasks[0].Title = "mutated"
	if got, _ := repo.Get(1); got.Title != "orig" {
		t.Errorf("repository mutated through copy: %q", got.Title)
	}
}
