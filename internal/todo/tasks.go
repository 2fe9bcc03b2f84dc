package todo

import (
	"context"
	"fmt"
)

// TaskRepository holds the task collection, newest first, and persists the
// whole collection after every mutation.
type TaskRepository struct {
	tasks  []Task
	saver  TaskSaver
	opts   options
	lastID ID
}

// NewTaskRepository creates a repository seeded with initial tasks.
// The initial slice is copied.
func NewTaskRepository(initial []Task, saver TaskSaver, opts ...Option) *TaskRepository {
	r := &TaskRepository{
		tasks: make([]Task, len(initial)),
		saver: saver,
		opts:  buildOptions(opts),
	}
	copy(r.tasks, initial)
	for _, t := range r.tasks {
		if t.ID > r.lastID {
			r.lastID = t.ID
		}
	}
	return r
}

// Tasks returns a copy of the collection in its current order.
func (r *TaskRepository) Tasks() []Task {
	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Len returns the number of tasks.
func (r *TaskRepository) Len() int {
	return len(r.tasks)
}

// Get returns the task with the given ID.
func (r *TaskRepository) Get(id ID) (Task, bool) {
	if i := r.index(id); i >= 0 {
		return r.tasks[i], true
	}
	return Task{}, false
}

// Create prepends a new task and persists the collection.
// The title is not validated here.
func (r *TaskRepository) Create(ctx context.Context, fields TaskFields) (Task, error) {
	now := r.opts.now()
	task := Task{
		ID:        r.nextID(ID(now.UnixMilli())),
		Title:     fields.Title,
		Category:  fields.Category,
		Priority:  fields.Priority,
		DueDate:   fields.DueDate,
		Completed: false,
		CreatedAt: now.UTC(),
	}
	r.tasks = append([]Task{task}, r.tasks...)

	err := r.persist(ctx, Event{
		Kind:    EventTaskCreated,
		TaskID:  task.ID,
		Message: "Task added successfully",
	})
	return task, err
}

// Update merges patch into the task with the given ID. It reports false,
// without persisting, when no such task exists.
func (r *TaskRepository) Update(ctx context.Context, id ID, patch Patch) (bool, error) {
	if err := patch.Validate(); err != nil {
		return false, err
	}
	i := r.index(id)
	if i < 0 {
		return false, nil
	}
	patch.apply(&r.tasks[i])

	return true, r.persist(ctx, Event{
		Kind:    EventTaskUpdated,
		TaskID:  id,
		Message: "Task updated",
	})
}

// Delete removes the task with the given ID. It reports false, without
// persisting, when no such task exists.
func (r *TaskRepository) Delete(ctx context.Context, id ID) (bool, error) {
	i := r.index(id)
	if i < 0 {
		return false, nil
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)

	return true, r.persist(ctx, Event{
		Kind:    EventTaskDeleted,
		TaskID:  id,
		Message: "Task deleted",
	})
}

// ToggleComplete inverts the completed flag of the task with the given ID.
func (r *TaskRepository) ToggleComplete(ctx context.Context, id ID) (bool, error) {
	task, ok := r.Get(id)
	if !ok {
		return false, nil
	}
	completed := !task.Completed
	return r.Update(ctx, id, Patch{Completed: &completed})
}

// Reorder arranges the collection in the order of ids. Unknown and repeated
// IDs are ignored. Tasks missing from ids keep their relative order after
// the named ones, so no task is ever dropped.
func (r *TaskRepository) Reorder(ctx context.Context, ids []ID) error {
	placed := make(map[ID]bool, len(ids))
	ordered := make([]Task, 0, len(r.tasks))
	for _, id := range ids {
		if placed[id] {
			continue
		}
		i := r.index(id)
		if i < 0 {
			continue
		}
		placed[id] = true
		ordered = append(ordered, r.tasks[i])
	}
	for _, t := range r.tasks {
		if !placed[t.ID] {
			ordered = append(ordered, t)
		}
	}
	r.tasks = ordered

	return r.persist(ctx, Event{Kind: EventTasksReordered})
}

// MoveBy shifts the task with the given ID by delta positions within the
// collection, clamped to its bounds. It is Reorder for a single task.
func (r *TaskRepository) MoveBy(ctx context.Context, id ID, delta int) (bool, error) {
	i := r.index(id)
	if i < 0 {
		return false, nil
	}
	j := i + delta
	if j < 0 {
		j = 0
	}
	if j > len(r.tasks)-1 {
		j = len(r.tasks) - 1
	}
	if i == j {
		return true, nil
	}
	ids := make([]ID, 0, len(r.tasks))
	for _, t := range r.tasks {
		if t.ID != id {
			ids = append(ids, t.ID)
		}
	}
	ids = append(ids[:j], append([]ID{id}, ids[j:]...)...)
	return true, r.Reorder(ctx, ids)
}

func (r *TaskRepository) index(id ID) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *TaskRepository) nextID(candidate ID) ID {
	if candidate <= r.lastID {
		candidate = r.lastID + 1
	}
	r.lastID = candidate
	return candidate
}

// persist saves the collection. On failure the in-memory change stays and
// the failure is reported to the notifier instead of ev.
func (r *TaskRepository) persist(ctx context.Context, ev Event) error {
	if err := r.saver.SaveTasks(ctx, r.Tasks()); err != nil {
		r.opts.notifier.Notify(Event{
			Kind:    EventSaveFailed,
			TaskID:  ev.TaskID,
			Message: "Failed to save tasks",
			Err:     err,
		})
		return fmt.Errorf("save tasks: %w", err)
	}
	r.opts.notifier.Notify(ev)
	return nil
}
