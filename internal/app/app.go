// Package app wires a storage backend, the repositories and the theme into
// one session shared by the CLI and the terminal UI.
package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nibzard/nexus-go/internal/config"
	"github.com/nibzard/nexus-go/internal/kv"
	"github.com/nibzard/nexus-go/internal/store"
	"github.com/nibzard/nexus-go/internal/theme"
	"github.com/nibzard/nexus-go/internal/todo"
	"github.com/nibzard/nexus-go/internal/view"
)

// App is an open session.
type App struct {
	Tasks      *todo.TaskRepository
	Categories *todo.CategoryRepository
	Theme      *theme.Theme
	Store      *store.Store
	Projector  *view.Projector

	cfg     *config.Config
	backend kv.Backend
	logger  *log.Logger
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	backend  kv.Backend
	notifier todo.Notifier
	repo     []todo.Option
}

// WithBackend uses an already open backend instead of the configured one.
// The App takes ownership and closes it.
func WithBackend(b kv.Backend) Option {
	return func(o *openOptions) {
		o.backend = b
	}
}

// WithNotifier routes repository events to n.
func WithNotifier(n todo.Notifier) Option {
	return func(o *openOptions) {
		o.notifier = n
	}
}

// WithRepositoryOptions passes extra options to both repositories.
func WithRepositoryOptions(opts ...todo.Option) Option {
	return func(o *openOptions) {
		o.repo = append(o.repo, opts...)
	}
}

// Open opens the configured backend and loads the stored state.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger, opts ...Option) (*App, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = kv.Open(ctx, cfg.KVOptions())
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
		}
	}
	logger = logger.With("store", cfg.Store)

	s := store.New(backend, logger)
	notifier := logNotifier(logger, o.notifier)
	repoOpts := append([]todo.Option{todo.WithNotifier(notifier)}, o.repo...)

	a := &App{
		Tasks:      todo.NewTaskRepository(s.LoadTasks(ctx), s, repoOpts...),
		Categories: todo.NewCategoryRepository(s.LoadCategories(ctx), s, repoOpts...),
		Theme:      theme.New(s.LoadDarkMode(ctx), s),
		Store:      s,
		Projector:  view.NewProjector(cfg.Locale),
		cfg:        cfg,
		backend:    backend,
		logger:     logger,
	}
	logger.Debug("session opened", "tasks", a.Tasks.Len(), "categories", len(a.Categories.Categories()), "theme", a.Theme.Name())
	return a, nil
}

// Close closes the backend.
func (a *App) Close() error {
	if err := a.backend.Close(); err != nil {
		return fmt.Errorf("close %s store: %w", a.cfg.Store, err)
	}
	return nil
}

// Config returns the configuration the session was opened with.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the session logger.
func (a *App) Logger() *log.Logger {
	return a.logger
}

// DefaultSelection returns the configured initial selection. A configured
// category that no longer exists falls back to "all".
func (a *App) DefaultSelection() view.Selection {
	sel := a.cfg.Selection()
	if _, ok := a.Categories.Get(sel.Category); !ok {
		sel.Category = todo.AllCategoryID
	}
	return sel
}

// Project returns the tasks to display for sel.
func (a *App) Project(sel view.Selection) []todo.Task {
	return a.Projector.Project(a.Tasks.Tasks(), sel)
}

// logNotifier logs every event, then forwards it to next.
func logNotifier(logger *log.Logger, next todo.Notifier) todo.Notifier {
	return todo.NotifierFunc(func(e todo.Event) {
		if e.Kind == todo.EventSaveFailed {
			logger.Error(e.Message, "task", e.TaskID, "category", e.CategoryID, "err", e.Err)
		} else {
			logger.Debug("mutation", "event", e.Kind, "task", e.TaskID, "category", e.CategoryID)
		}
		if next != nil {
			next.Notify(e)
		}
	})
}
