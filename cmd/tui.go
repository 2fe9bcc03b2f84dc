package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nibzard/nexus-go/internal/app"
	"github.com/nibzard/nexus-go/internal/logging"
	"github.com/nibzard/nexus-go/internal/ui"
)

// tuiCommand runs the terminal UI. The UI owns the terminal, so the session
// logs to the UI log file instead of stderr.
func tuiCommand(ctx context.Context, e *env, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", errUsage, args)
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY, use 'nexus ls' or 'nexus help'")
	}

	cfg := e.cfg
	logger, closer, err := logging.OpenFile(cfg.UILogFile(), logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller))
	if err != nil {
		return err
	}
	defer closer.Close()

	queue := &ui.EventQueue{}
	opts := append([]app.Option{app.WithNotifier(queue)}, e.opts...)
	a, err := app.Open(ctx, cfg, logger, opts...)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("tui started", "version", Version)
	if err := ui.Run(ctx, a, queue); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("tui stopped", "err", err)
		return err
	}
	logger.Info("tui stopped")
	return nil
}

// logsCommand prints the terminal UI log.
func logsCommand(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("logs")
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", errUsage, fs.Args())
	}

	path := e.cfg.UILogFile()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(e.stdout, "No log file found.")
		return nil
	}
	if *follow {
		fmt.Fprintf(e.stderr, "Tailing: %s (Ctrl+C to stop)\n", path)
	}
	return logging.Tail(ctx, e.stdout, path, *n, *follow)
}
