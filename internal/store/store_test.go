package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nibzard/nexus-go/internal/kv"
	"github.com/nibzard/nexus-go/internal/todo"
)

// failingBackend fails every Set.
type failingBackend struct {
	*kv.Memory
}

var errDiskFull = errors.New("disk full")

func (failingBackend) Set(context.Context, string, string) error {
	return errDiskFull
}

func TestTasksRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), nil)

	tasks := []todo.Task{
		{
			ID:        1704844800001,
			Title:     "File report",
			Category:  "work",
			Priority:  todo.PriorityHigh,
			DueDate:   "2024-01-05",
			CreatedAt: time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:        1704844800000,
			Title:     "Buy milk",
			Category:  "shopping",
			Priority:  todo.PriorityLow,
			Completed: true,
			CreatedAt: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		},
	}
	if err := s.SaveTasks(ctx, tasks); err != nil {
		t.Fatalf("SaveTasks() failed: %v", err)
	}
	if diff := cmp.Diff(tasks, s.LoadTasks(ctx)); diff != "" {
		t.Errorf("LoadTasks() mismatch (-want +got):\n%s", diff)
	}
}

func TestCategoriesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), nil)

	categories := append(todo.SeedCategories(), todo.Category{ID: "travel", Name: "Travel", Icon: "T", Color: "#00bcd4"})
	if err := s.SaveCategories(ctx, categories); err != nil {
		t.Fatalf("SaveCategories() failed: %v", err)
	}
	if diff := cmp.Diff(categories, s.LoadCategories(ctx)); diff != "" {
		t.Errorf("LoadCategories() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), nil)

	if got := s.LoadTasks(ctx); got == nil || len(got) != 0 {
		t.Errorf("LoadTasks() = %#v, want empty non-nil list", got)
	}
	if diff := cmp.Diff(todo.SeedCategories(), s.LoadCategories(ctx)); diff != "" {
		t.Errorf("LoadCategories() mismatch (-want +got):\n%s", diff)
	}
	if s.LoadDarkMode(ctx) {
		t.Error("LoadDarkMode() = true, want false")
	}
}

func TestMalformedRecordsFallBack(t *testing.T) {
	tests := []struct {
		name string
		key  string
		raw  string
	}{
		{name: "tasks not json", key: KeyTasks, raw: "{not json"},
		{name: "tasks not array", key: KeyTasks, raw: `{"id":1}`},
		{name: "task missing title", key: KeyTasks, raw: `[{"id":1,"completed":false}]`},
		{name: "task id string", key: KeyTasks, raw: `[{"id":"1","title":"x","completed":false}]`},
		{name: "task bad createdAt", key: KeyTasks, raw: `[{"id":1,"title":"x","completed":false,"createdAt":"yesterday"}]`},
		{name: "tasks trailing data", key: KeyTasks, raw: `[] []`},
		{name: "categories not json", key: KeyCategories, raw: "]["},
		{name: "category missing id", key: KeyCategories, raw: `[{"name":"Work"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend := kv.NewMemory()
			if err := backend.Set(ctx, tt.key, tt.raw); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			s := New(backend, nil)

			switch tt.key {
			case KeyTasks:
				if got := s.LoadTasks(ctx); len(got) != 0 {
					t.Errorf("LoadTasks() = %v, want empty", got)
				}
			case KeyCategories:
				if diff := cmp.Diff(todo.SeedCategories(), s.LoadCategories(ctx)); diff != "" {
					t.Errorf("LoadCategories() mismatch (-want +got):\n%s", diff)
				}
			}

			_, problems := s.Check(ctx)
			if len(problems) == 0 {
				t.Error("Check() found no problems")
			}
		})
	}
}

func TestLoadAcceptsBrowserRecords(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	raw := `[{"id":1704844800000,"title":"Buy milk","category":"shopping","priority":"low",` +
		`"dueDate":"2024-01-10","completed":false,"createdAt":"2024-01-01T10:00:00.000Z"}]`
	if err := backend.Set(ctx, KeyTasks, raw); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got := New(backend, nil).LoadTasks(ctx)
	if len(got) != 1 {
		t.Fatalf("LoadTasks() returned %d tasks, want 1", len(got))
	}
	if got[0].ID != 1704844800000 || got[0].Title != "Buy milk" {
		t.Errorf("LoadTasks()[0] = %+v", got[0])
	}
}

func TestSaveEmptyList(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := New(backend, nil)

	if err := s.SaveTasks(ctx, nil); err != nil {
		t.Fatalf("SaveTasks() failed: %v", err)
	}
	raw, err := backend.Get(ctx, KeyTasks)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if raw != "[]" {
		t.Errorf("stored %q, want %q", raw, "[]")
	}
}

func TestDarkMode(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := New(backend, nil)

	if err := s.SaveDarkMode(ctx, true); err != nil {
		t.Fatalf("SaveDarkMode() failed: %v", err)
	}
	if raw, _ := backend.Get(ctx, KeyDarkMode); raw != "true" {
		t.Errorf("stored %q, want %q", raw, "true")
	}
	if !s.LoadDarkMode(ctx) {
		t.Error("LoadDarkMode() = false, want true")
	}

	if err := backend.Set(ctx, KeyDarkMode, "yes"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if s.LoadDarkMode(ctx) {
		t.Error("LoadDarkMode() with malformed value = true, want false")
	}
}

func TestSaveErrorsWrapErrSave(t *testing.T) {
	ctx := context.Background()
	s := New(failingBackend{kv.NewMemory()}, nil)

	checks := map[string]error{
		"tasks":      s.SaveTasks(ctx, []todo.Task{{ID: 1, Title: "x"}}),
		"categories": s.SaveCategories(ctx, todo.SeedCategories()),
		"darkMode":   s.SaveDarkMode(ctx, true),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrSave) {
			t.Errorf("%s: error = %v, want ErrSave", name, err)
		}
		if !errors.Is(err, errDiskFull) {
			t.Errorf("%s: error = %v, want cause preserved", name, err)
		}
	}
}

func TestRepositoriesPersistThroughStore(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := New(backend, nil)

	repo := todo.NewTaskRepository(s.LoadTasks(ctx), s)
	if _, err := repo.Create(ctx, todo.TaskFields{Title: "Buy milk", Category: "shopping", Priority: todo.PriorityLow}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	categories := todo.NewCategoryRepository(s.LoadCategories(ctx), s)
	if _, err := categories.Create(ctx, todo.CategoryFields{Name: "Travel Plans"}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	reloaded := New(backend, nil)
	if diff := cmp.Diff(repo.Tasks(), reloaded.LoadTasks(ctx)); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(categories.Categories(), reloaded.LoadCategories(ctx)); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := New(backend, nil)

	statuses, problems := s.Check(ctx)
	if len(problems) != 0 {
		t.Errorf("Check() on empty store = %v, want no problems", problems)
	}
	for _, st := range statuses {
		if st.Present {
			t.Errorf("record %s reported present in empty store", st.Key)
		}
	}

	_ = s.SaveTasks(ctx, []todo.Task{{ID: 1, Title: "x", CreatedAt: time.Now().UTC()}})
	_ = backend.Set(ctx, KeyDarkMode, "maybe")

	statuses, problems = s.Check(ctx)
	if len(statuses) != 3 || !statuses[0].Present {
		t.Errorf("Check() statuses = %+v", statuses)
	}
	if len(problems) != 1 || problems[0].Key != KeyDarkMode {
		t.Errorf("Check() problems = %v, want one darkMode problem", problems)
	}
}

func TestValidationErrorPath(t *testing.T) {
	errs := validateRecord(KeyTasks, `[{"id":1,"title":"ok","completed":false},{"id":2,"title":3,"completed":false}]`)
	if len(errs) == 0 {
		t.Fatal("validateRecord() returned no errors")
	}
	var ve *ValidationError
	if !errors.As(errs[0], &ve) {
		t.Fatalf("error %T is not *ValidationError", errs[0])
	}
	if ve.Path != "[1].title" {
		t.Errorf("Path = %q, want %q", ve.Path, "[1].title")
	}
}

func TestRecordPath(t *testing.T) {
	tests := []struct {
		ptr  string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/0", "[0]"},
		{"/1/title", "[1].title"},
		{"#/tasks/0/dueDate", "tasks[0].dueDate"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		if got := recordPath(tt.ptr); got != tt.want {
			t.Errorf("recordPath(%q) = %q, want %q", tt.ptr, got, tt.want)
		}
	}
}
