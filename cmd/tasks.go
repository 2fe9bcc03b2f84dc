package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nibzard/nexus-go/internal/app"
	"github.com/nibzard/nexus-go/internal/todo"
	"github.com/nibzard/nexus-go/internal/view"
)

// lsCommand lists the tasks of one category, filtered and sorted.
func lsCommand(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("ls")
	category := fs.String("category", "", "Category to list")
	filter := fs.String("filter", "", "Filter (all|active|completed)")
	sortKey := fs.String("sort", "", "Sort order (date|priority|title)")

	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", errUsage, rest)
	}

	return e.withApp(ctx, func(a *app.App) error {
		sel := a.DefaultSelection()
		if *category != "" {
			if _, ok := a.Categories.Get(*category); !ok {
				return fmt.Errorf("unknown category %q", *category)
			}
			sel.Category = *category
		}
		if *filter != "" {
			f, err := view.ParseFilter(*filter)
			if err != nil {
				return err
			}
			sel.Filter = f
		}
		if *sortKey != "" {
			s, err := view.ParseSort(*sortKey)
			if err != nil {
				return err
			}
			sel.Sort = s
		}

		tasks := a.Project(sel)
		all := a.Tasks.Tasks()
		fmt.Fprintf(e.stdout, "%s (%d of %d, %d completed) · %s · by %s\n",
			a.Categories.Name(sel.Category),
			len(tasks),
			view.CountForCategory(all, sel.Category),
			view.CountCompleted(all, sel.Category),
			sel.Filter, sel.Sort)
		if len(tasks) == 0 {
			fmt.Fprintln(e.stdout, "  No tasks.")
			return nil
		}
		printTaskList(e.stdout, a, tasks)
		return nil
	})
}

// addCommand creates a task from the words of its arguments.
func addCommand(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("add")
	category := fs.String("category", "", "Category id")
	priority := fs.String("priority", string(todo.PriorityMedium), "Priority (high|medium|low)")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")

	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	title := joinWords(rest)
	if title == "" {
		return fmt.Errorf("%w: add expects a title", errUsage)
	}
	p, err := todo.ParsePriority(*priority)
	if err != nil {
		return err
	}
	d, err := todo.ParseDueDate(*due)
	if err != nil {
		return err
	}

	return e.withApp(ctx, func(a *app.App) error {
		categoryID, err := taskCategory(a, *category)
		if err != nil {
			return err
		}
		task, err := a.Tasks.Create(ctx, todo.TaskFields{
			Title:    title,
			Category: categoryID,
			Priority: p,
			DueDate:  d,
		})
		if err != nil {
			return err
		}
		printTaskList(e.stdout, a, []todo.Task{task})
		return nil
	})
}

// editCommand patches the flags that were given on the command line.
func editCommand(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("edit")
	title := fs.String("title", "", "New title")
	category := fs.String("category", "", "Category id")
	priority := fs.String("priority", "", "Priority (high|medium|low)")
	due := fs.String("due", "", "Due date (YYYY-MM-DD), empty clears it")

	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs("edit", rest, 1); err != nil {
		return err
	}
	id, err := todo.ParseID(rest[0])
	if err != nil {
		return err
	}

	var patch todo.Patch
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			patch.Title = title
		case "category":
			patch.Category = category
		case "priority":
			p, err := todo.ParsePriority(*priority)
			if err != nil {
				parseErr = err
				return
			}
			patch.Priority = &p
		case "due":
			d, err := todo.ParseDueDate(*due)
			if err != nil {
				parseErr = err
				return
			}
			patch.DueDate = &d
		}
	})
	if parseErr != nil {
		return parseErr
	}
	if patch.IsEmpty() {
		return fmt.Errorf("%w: edit needs at least one of -title, -category, -priority, -due", errUsage)
	}

	return e.withApp(ctx, func(a *app.App) error {
		if patch.Category != nil {
			resolved, err := taskCategory(a, *patch.Category)
			if err != nil {
				return err
			}
			patch.Category = &resolved
		}
		found, err := a.Tasks.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		if !found {
			return taskNotFound(id)
		}
		task, _ := a.Tasks.Get(id)
		printTaskList(e.stdout, a, []todo.Task{task})
		return nil
	})
}

// doneCommand toggles the completed flag of a task.
func doneCommand(ctx context.Context, e *env, args []string) error {
	id, err := singleID("done", args)
	if err != nil {
		return err
	}
	return e.withApp(ctx, func(a *app.App) error {
		found, err := a.Tasks.ToggleComplete(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return taskNotFound(id)
		}
		task, _ := a.Tasks.Get(id)
		printTaskList(e.stdout, a, []todo.Task{task})
		return nil
	})
}

// rmCommand deletes a task.
func rmCommand(ctx context.Context, e *env, args []string) error {
	id, err := singleID("rm", args)
	if err != nil {
		return err
	}
	return e.withApp(ctx, func(a *app.App) error {
		found, err := a.Tasks.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return taskNotFound(id)
		}
		return nil
	})
}

// reorderCommand puts the named tasks first, in the given order.
func reorderCommand(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: reorder expects at least one task id", errUsage)
	}
	ids := make([]todo.ID, 0, len(args))
	for _, arg := range args {
		id, err := todo.ParseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	return e.withApp(ctx, func(a *app.App) error {
		for _, id := range ids {
			if _, ok := a.Tasks.Get(id); !ok {
				e.logger.Warn("ignoring unknown task", "id", id)
			}
		}
		if err := a.Tasks.Reorder(ctx, ids); err != nil {
			return err
		}
		printTaskList(e.stdout, a, a.Tasks.Tasks())
		return nil
	})
}

// moveCommand shifts a task up (negative) or down (positive) in the stored order.
func moveCommand(ctx context.Context, e *env, args []string) error {
	if err := expectArgs("move", args, 2); err != nil {
		return err
	}
	id, err := todo.ParseID(args[0])
	if err != nil {
		return err
	}
	delta, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: invalid offset %q", errUsage, args[1])
	}
	return e.withApp(ctx, func(a *app.App) error {
		found, err := a.Tasks.MoveBy(ctx, id, delta)
		if err != nil {
			return err
		}
		if !found {
			return taskNotFound(id)
		}
		printTaskList(e.stdout, a, a.Tasks.Tasks())
		return nil
	})
}

// joinWords joins positional arguments so titles need no quoting.
func joinWords(words []string) string {
	return strings.TrimSpace(strings.Join(words, " "))
}

func singleID(name string, args []string) (todo.ID, error) {
	if err := expectArgs(name, args, 1); err != nil {
		return 0, err
	}
	return todo.ParseID(args[0])
}

func taskNotFound(id todo.ID) error {
	return fmt.Errorf("task %s not found", id)
}

// taskCategory resolves the category for a task. Empty means the configured
// default category, or the first real category when that is "all".
func taskCategory(a *app.App, id string) (string, error) {
	if id == "" {
		id = a.DefaultSelection().Category
		if id == todo.AllCategoryID {
			id = ""
			for _, c := range a.Categories.Categories() {
				if c.ID != todo.AllCategoryID {
					id = c.ID
					break
				}
			}
		}
		if id == "" {
			return "", fmt.Errorf("no category to add the task to, create one with add-category")
		}
	}
	if id == todo.AllCategoryID {
		return "", fmt.Errorf("%w: tasks cannot be assigned to %q", todo.ErrReservedCategory, id)
	}
	if _, ok := a.Categories.Get(id); !ok {
		return "", fmt.Errorf("unknown category %q", id)
	}
	return id, nil
}

// printTaskList prints one line per task.
func printTaskList(w io.Writer, a *app.App, tasks []todo.Task) {
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] %s  %-6s  %-12s  %-10s  %s\n",
			mark, t.ID, t.Priority, t.DueDate.Format(), a.Categories.Name(t.Category), t.Title)
	}
}
