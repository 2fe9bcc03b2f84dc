// Package theme holds the dark/light display mode and the accent colour
// derived from it.
package theme

import (
	"context"
)

// Accent colours.
const (
	LightAccent = "#c7b299"
	DarkAccent  = "#e3e3e3"
)

// Saver persists the dark mode flag.
type Saver interface {
	SaveDarkMode(ctx context.Context, dark bool) error
}

// Theme is the current display mode. Subscribers are told the new accent
// colour after every change.
type Theme struct {
	dark        bool
	saver       Saver
	subscribers []func(accent string)
}

// New returns a theme starting in the given mode.
func New(dark bool, saver Saver) *Theme {
	return &Theme{dark: dark, saver: saver}
}

// Dark reports whether dark mode is on.
func (t *Theme) Dark() bool {
	return t.dark
}

// Name returns "dark" or "light".
func (t *Theme) Name() string {
	if t.dark {
		return "dark"
	}
	return "light"
}

// AccentColor returns the accent colour of the current mode.
func (t *Theme) AccentColor() string {
	return AccentFor(t.dark)
}

// AccentFor returns the accent colour of a mode.
func AccentFor(dark bool) string {
	if dark {
		return DarkAccent
	}
	return LightAccent
}

// Toggle flips the mode and persists it.
func (t *Theme) Toggle(ctx context.Context) error {
	return t.Set(ctx, !t.dark)
}

// Set changes the mode and persists it. The mode changes even when saving
// fails; subscribers are notified either way.
func (t *Theme) Set(ctx context.Context, dark bool) error {
	t.dark = dark
	var err error
	if t.saver != nil {
		err = t.saver.SaveDarkMode(ctx, dark)
	}
	accent := t.AccentColor()
	for _, fn := range t.subscribers {
		fn(accent)
	}
	return err
}

// Subscribe registers fn to be called with the accent colour after each
// change.
func (t *Theme) Subscribe(fn func(accent string)) {
	if fn != nil {
		t.subscribers = append(t.subscribers, fn)
	}
}
