// Package cmd implements the CLI command structure for nexus.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/nexus-go/internal/app"
	"github.com/nibzard/nexus-go/internal/config"
	"github.com/nibzard/nexus-go/internal/logging"
	"github.com/nibzard/nexus-go/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// errUsage marks errors caused by bad command lines.
var errUsage = errors.New("usage")

// env carries what every command needs.
type env struct {
	cws    *config.ConfigWithSources
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger

	// opts are appended to the app.Open options. Tests use it to inject backends.
	opts []app.Option
}

// Run executes the nexus CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...app.Option) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("nexus", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(stdout)
		return nil
	}

	cfg := cws.Config
	e := &env{
		cws:    cws,
		cfg:    cfg,
		stdout: stdout,
		stderr: stderr,
		logger: logging.New(stderr, logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)),
		opts:   opts,
	}
	if *showVersion {
		return versionCommand(e)
	}

	// No args or a leading flag means the terminal UI
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, e, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, e, remainingArgs)
	case "add":
		return addCommand(ctx, e, remainingArgs)
	case "edit":
		return editCommand(ctx, e, remainingArgs)
	case "done":
		return doneCommand(ctx, e, remainingArgs)
	case "rm":
		return rmCommand(ctx, e, remainingArgs)
	case "reorder":
		return reorderCommand(ctx, e, remainingArgs)
	case "move":
		return moveCommand(ctx, e, remainingArgs)
	case "categories":
		return categoriesCommand(ctx, e, remainingArgs)
	case "add-category":
		return addCategoryCommand(ctx, e, remainingArgs)
	case "rm-category":
		return rmCategoryCommand(ctx, e, remainingArgs)
	case "theme":
		return themeCommand(ctx, e, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, e, remainingArgs)
	case "config":
		return configCommand(e, remainingArgs)
	case "logs":
		return logsCommand(ctx, e, remainingArgs)
	case "version":
		return versionCommand(e)
	case "help":
		printUsage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// open opens a session whose repository events are printed as confirmations.
func (e *env) open(ctx context.Context) (*app.App, error) {
	opts := []app.Option{app.WithNotifier(todo.NotifierFunc(e.confirm))}
	opts = append(opts, e.opts...)
	return app.Open(ctx, e.cfg, e.logger, opts...)
}

// confirm prints the message of a successful mutation. Save failures are
// logged by the session and returned by the command.
func (e *env) confirm(ev todo.Event) {
	if ev.Kind == todo.EventSaveFailed || ev.Message == "" || !e.cfg.Notifications {
		return
	}
	fmt.Fprintf(e.stdout, "✅ %s\n", ev.Message)
}

// withApp opens a session, runs fn and closes the session.
func (e *env) withApp(ctx context.Context, fn func(a *app.App) error) (err error) {
	a, err := e.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

// parseArgs parses fs allowing flags after positional arguments and
// returns the positional arguments in order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		consumed := len(args) - fs.NArg()
		if consumed > 0 && args[consumed-1] == "--" {
			return append(positional, fs.Args()...), nil
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// newFlagSet creates a subcommand flag set writing its errors to stderr.
func (e *env) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("nexus "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func expectArgs(name string, got []string, want int) error {
	if len(got) != want {
		return fmt.Errorf("%w: %s expects %d argument(s), got %d", errUsage, name, want, len(got))
	}
	return nil
}

// versionCommand prints version information.
func versionCommand(e *env) error {
	fmt.Fprintf(e.stdout, "nexus version %s\n", Version)
	return nil
}

// configCommand prints an example configuration file.
func configCommand(e *env, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", errUsage, args)
	}
	fmt.Fprint(e.stdout, config.ExampleConfig())
	return nil
}

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Nexus - tasks and categories in the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  nexus [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                     Launch terminal UI (default command)")
	fmt.Fprintln(w, "  ls                      List tasks")
	fmt.Fprintln(w, "  add <title>             Add a task")
	fmt.Fprintln(w, "  edit <id>               Edit a task")
	fmt.Fprintln(w, "  done <id>               Toggle task completion")
	fmt.Fprintln(w, "  rm <id>                 Delete a task")
	fmt.Fprintln(w, "  reorder <id>...         Reorder tasks, unnamed tasks keep their order at the end")
	fmt.Fprintln(w, "  move <id> <offset>      Move a task up (negative) or down (positive)")
	fmt.Fprintln(w, "  categories              List categories with task counts")
	fmt.Fprintln(w, "  add-category <name>     Add a category")
	fmt.Fprintln(w, "  rm-category <id>        Delete a category")
	fmt.Fprintln(w, "  theme [toggle|dark|light]  Show or change the theme")
	fmt.Fprintln(w, "  doctor                  Check config and stored data")
	fmt.Fprintln(w, "  config                  Print an example config file")
	fmt.Fprintln(w, "  logs                    Show the terminal UI log")
	fmt.Fprintln(w, "  version                 Show version information")
	fmt.Fprintln(w, "  help                    Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fmt.Fprintln(w, "  -store string           Storage backend (file|sqlite|redis|memory)")
	fmt.Fprintln(w, "  -data-dir string        Data directory (default ~/.nexus)")
	fmt.Fprintln(w, "  -sqlite-path string     SQLite database path")
	fmt.Fprintln(w, "  -redis-addr string      Redis address")
	fmt.Fprintln(w, "  -sort string            Initial sort (date|priority|title)")
	fmt.Fprintln(w, "  -filter string          Initial filter (all|active|completed)")
	fmt.Fprintln(w, "  -category string        Initial category")
	fmt.Fprintln(w, "  -log-level string       Log level (debug|info|warn|error)")
	fmt.Fprintln(w, "  -h, -help               Show help")
	fmt.Fprintln(w, "  -v, -version            Show version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -category string        Category to list (default from config)")
	fmt.Fprintln(w, "  -filter string          all|active|completed")
	fmt.Fprintln(w, "  -sort string            date|priority|title")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add/Edit Options:")
	fmt.Fprintln(w, "  -title string           New title (edit only)")
	fmt.Fprintln(w, "  -category string        Category id")
	fmt.Fprintln(w, "  -priority string        high|medium|low")
	fmt.Fprintln(w, "  -due string             Due date YYYY-MM-DD, empty clears it on edit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add-category Options:")
	fmt.Fprintln(w, "  -color string           Hex color (default #c7b299)")
	fmt.Fprintln(w, "  -icon string            Icon (default first letter of name)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options:")
	fmt.Fprintln(w, "  -n int                  Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -f, -follow             Follow the log (like tail -f)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables NEXUS_* and nexus.toml override the defaults.")
	fmt.Fprintln(w, "Run 'nexus config' for an example config file.")
}
