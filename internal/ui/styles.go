package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/nexus-go/internal/todo"
)

type styles struct {
	title     lipgloss.Style
	sidebar   lipgloss.Style
	category  lipgloss.Style
	selected  lipgloss.Style
	cursor    lipgloss.Style
	done      lipgloss.Style
	muted     lipgloss.Style
	status    lipgloss.Style
	toast     lipgloss.Style
	failure   lipgloss.Style
	formBox   lipgloss.Style
	formLabel lipgloss.Style
	errorText lipgloss.Style
	text      lipgloss.Color
}

func newStyles(accent string, dark bool) styles {
	text := lipgloss.Color("#333333")
	muted := lipgloss.Color("#888888")
	if dark {
		text = lipgloss.Color("#e3e3e3")
		muted = lipgloss.Color("#9e9e9e")
	}
	acc := lipgloss.Color(accent)

	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(acc).MarginBottom(1),
		sidebar:   lipgloss.NewStyle().Width(26).PaddingRight(2).BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(acc),
		category:  lipgloss.NewStyle().Foreground(text),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(acc),
		cursor:    lipgloss.NewStyle().Bold(true).Foreground(acc),
		done:      lipgloss.NewStyle().Strikethrough(true).Foreground(muted),
		muted:     lipgloss.NewStyle().Foreground(muted),
		status:    lipgloss.NewStyle().Foreground(muted).MarginBottom(1),
		toast:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(acc).Padding(0, 1),
		failure:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#f44336")).Padding(0, 1),
		formBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(acc).Padding(1, 2),
		formLabel: lipgloss.NewStyle().Foreground(acc).Width(10),
		errorText: lipgloss.NewStyle().Foreground(lipgloss.Color("#f44336")),
		text:      text,
	}
}

func priorityStyle(p todo.Priority) lipgloss.Style {
	switch p {
	case todo.PriorityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#f44336"))
	case todo.PriorityMedium:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9800"))
	case todo.PriorityLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#4caf50"))
	default:
		return lipgloss.NewStyle()
	}
}

func categoryColor(c todo.Category) lipgloss.Style {
	if c.Color == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color))
}
