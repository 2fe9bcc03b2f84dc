package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Toggle       key.Binding
	Delete       key.Binding
	Add          key.Binding
	Edit         key.Binding
	AddCategory  key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
	Filter       key.Binding
	Sort         key.Binding
	MoveDown     key.Binding
	MoveUp       key.Binding
	Theme        key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Toggle:       key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "complete")),
		Delete:       key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Add:          key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add task")),
		Edit:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
		AddCategory:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "add category")),
		NextCategory: key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab", "next category")),
		PrevCategory: key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab", "prev category")),
		Filter:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Sort:         key.NewBinding(key.WithKeys("o", "s"), key.WithHelp("o", "sort")),
		MoveDown:     key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		MoveUp:       key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		Theme:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.NextCategory, k.Filter, k.Sort, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.MoveUp, k.MoveDown},
		{k.Add, k.Edit, k.Toggle, k.Delete},
		{k.NextCategory, k.PrevCategory, k.AddCategory},
		{k.Filter, k.Sort, k.Theme, k.Help, k.Quit},
	}
}

type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func defaultFormKeyMap() formKeyMap {
	return formKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
