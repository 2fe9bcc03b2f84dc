package cmd

import (
	"context"
	"fmt"

	"github.com/nibzard/nexus-go/internal/app"
	"github.com/nibzard/nexus-go/internal/todo"
	"github.com/nibzard/nexus-go/internal/view"
)

// categoriesCommand lists categories with their task counts.
func categoriesCommand(ctx context.Context, e *env, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", errUsage, args)
	}
	return e.withApp(ctx, func(a *app.App) error {
		tasks := a.Tasks.Tasks()
		for _, c := range a.Categories.Categories() {
			fmt.Fprintf(e.stdout, "  %s  %-12s %-16s %s  %d tasks, %d completed\n",
				c.Icon, c.ID, c.Name, c.Color,
				view.CountForCategory(tasks, c.ID),
				view.CountCompleted(tasks, c.ID))
		}
		return nil
	})
}

// addCategoryCommand creates a category named by its arguments.
func addCategoryCommand(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("add-category")
	color := fs.String("color", "", "Hex color")
	icon := fs.String("icon", "", "Icon")

	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("%w: add-category expects a name", errUsage)
	}
	name := joinWords(rest)

	return e.withApp(ctx, func(a *app.App) error {
		c, err := a.Categories.Create(ctx, todo.CategoryFields{Name: name, Color: *color, Icon: *icon})
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "  %s  %s  %s\n", c.Icon, c.ID, c.Name)
		return nil
	})
}

// rmCategoryCommand deletes a category. Its tasks are kept.
func rmCategoryCommand(ctx context.Context, e *env, args []string) error {
	if err := expectArgs("rm-category", args, 1); err != nil {
		return err
	}
	id := args[0]
	return e.withApp(ctx, func(a *app.App) error {
		found, err := a.Categories.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("category %q not found", id)
		}
		if n := view.CountForCategory(a.Tasks.Tasks(), id); n > 0 {
			fmt.Fprintf(e.stdout, "%d task(s) now show as %s\n", n, todo.UnknownCategoryName)
		}
		return nil
	})
}

// themeCommand shows or changes the colour mode.
func themeCommand(ctx context.Context, e *env, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: unexpected arguments: %v", errUsage, args[1:])
	}
	return e.withApp(ctx, func(a *app.App) error {
		var err error
		if len(args) == 1 {
			switch args[0] {
			case "toggle":
				err = a.Theme.Toggle(ctx)
			case "dark":
				err = a.Theme.Set(ctx, true)
			case "light":
				err = a.Theme.Set(ctx, false)
			default:
				return fmt.Errorf("%w: unknown theme %q, must be one of: toggle, dark, light", errUsage, args[0])
			}
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "%s (accent %s)\n", a.Theme.Name(), a.Theme.AccentColor())
		return nil
	})
}
