package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nibzard/nexus-go/internal/app"
	"github.com/nibzard/nexus-go/internal/config"
	"github.com/nibzard/nexus-go/internal/store"
)

// doctorCommand reports where the configuration came from and validates
// the stored records.
func doctorCommand(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("doctor")
	verbose := fs.Bool("v", false, "Show every setting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", errUsage, fs.Args())
	}

	w := e.stdout
	allOK := true

	fmt.Fprintln(w, "Configuration:")
	if len(e.cws.Files) == 0 {
		fmt.Fprintf(w, "  ⚠️  No config file (defaults apply, see %s)\n", config.UserConfigPath())
	}
	for _, path := range e.cws.Files {
		fmt.Fprintf(w, "  ✅ %s\n", path)
	}
	for _, key := range e.cws.Unknown {
		fmt.Fprintf(w, "  ⚠️  Unknown key: %s\n", key)
	}
	for _, field := range config.Fields() {
		source := e.cws.Source(field)
		if !*verbose && source == config.SourceDefault {
			continue
		}
		fmt.Fprintf(w, "  %s = %s (%s)\n", field, e.cfg.Value(field), source)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Store: %s\n", e.cfg.Store)
	err := e.withApp(ctx, func(a *app.App) error {
		fmt.Fprintln(w, "  ✅ Opened")
		statuses, problems := a.Store.Check(ctx)
		for _, st := range statuses {
			if !st.Present {
				fmt.Fprintf(w, "  ⚠️  %s: not stored (%s)\n", st.Key, absentMeaning(st.Key))
				continue
			}
			fmt.Fprintf(w, "  ✅ %s: %d bytes\n", st.Key, st.Bytes)
		}
		for _, p := range problems {
			fmt.Fprintf(w, "  ❌ %v\n", p)
		}
		if len(problems) > 0 {
			allOK = false
		}
		if *verbose {
			fmt.Fprintf(w, "  Tasks: %d\n", a.Tasks.Len())
			fmt.Fprintf(w, "  Categories: %d\n", len(a.Categories.Categories()))
			fmt.Fprintf(w, "  Theme: %s\n", a.Theme.Name())
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	}
	fmt.Fprintln(w)

	logPath := e.cfg.UILogFile()
	fmt.Fprintf(w, "Log file: %s\n", logPath)
	if _, err := os.Stat(logPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(w, "  ⚠️  Not found (created when the terminal UI runs)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. Nexus may not load all of your data.")
	return fmt.Errorf("doctor checks failed")
}

func absentMeaning(key string) string {
	switch key {
	case store.KeyTasks:
		return "starts empty"
	case store.KeyCategories:
		return "seed categories are used"
	default:
		return "light theme"
	}
}
