package todo

import (
	"context"
	"time"
)

// EventKind names a repository mutation.
type EventKind string

const (
	EventTaskCreated     EventKind = "task_created"
	EventTaskUpdated     EventKind = "task_updated"
	EventTaskDeleted     EventKind = "task_deleted"
	EventTasksReordered  EventKind = "tasks_reordered"
	EventCategoryCreated EventKind = "category_created"
	EventCategoryDeleted EventKind = "category_deleted"
	EventSaveFailed      EventKind = "save_failed"
)

// Event describes a completed mutation. Message is the text a front end
// should show the user; it is empty for mutations that need no confirmation.
type Event struct {
	Kind       EventKind
	TaskID     ID
	CategoryID string
	Message    string
	Err        error
}

// Notifier receives an Event after every repository mutation.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Event)

// Notify calls f(e).
func (f NotifierFunc) Notify(e Event) {
	f(e)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}

// TaskSaver persists the whole task collection.
type TaskSaver interface {
	SaveTasks(ctx context.Context, tasks []Task) error
}

// CategorySaver persists the whole category collection.
type CategorySaver interface {
	SaveCategories(ctx context.Context, categories []Category) error
}

// Option configures a repository.
type Option func(*options)

type options struct {
	notifier Notifier
	now      func() time.Time
}

// WithNotifier sets the notifier that receives mutation events.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithClock overrides the clock used for IDs and creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		notifier: nopNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
