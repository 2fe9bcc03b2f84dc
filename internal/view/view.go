// Package view derives the displayed task list from the task collection and
// the current selection.
package view

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nibzard/nexus-go/internal/todo"
)

// Sort is a sort key for the task list.
type Sort string

const (
	SortDate     Sort = "date"
	SortPriority Sort = "priority"
	SortTitle    Sort = "title"
)

// Sorts lists the sort keys in cycling order.
func Sorts() []Sort {
	return []Sort{SortDate, SortPriority, SortTitle}
}

// Next returns the sort key after s, wrapping around.
func (s Sort) Next() Sort {
	return next(Sorts(), s)
}

// ParseSort parses a sort key name.
func ParseSort(s string) (Sort, error) {
	key := Sort(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Sorts() {
		if key == valid {
			return key, nil
		}
	}
	return "", fmt.Errorf("invalid sort %q, must be one of: date, priority, title", s)
}

// Filter is a completion filter.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists the completion filters in cycling order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// Next returns the filter after f, wrapping around.
func (f Filter) Next() Filter {
	return next(Filters(), f)
}

// ParseFilter parses a completion filter name.
func ParseFilter(s string) (Filter, error) {
	key := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Filters() {
		if key == valid {
			return key, nil
		}
	}
	return "", fmt.Errorf("invalid filter %q, must be one of: all, active, completed", s)
}

func next[T comparable](values []T, cur T) T {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

// Selection is the ephemeral view state: which category, which completion
// filter, and which sort key. It is never persisted.
type Selection struct {
	Category string
	Filter   Filter
	Sort     Sort
}

// DefaultSelection shows every task sorted by due date.
func DefaultSelection() Selection {
	return Selection{
		Category: todo.AllCategoryID,
		Filter:   FilterAll,
		Sort:     SortDate,
	}
}

// Projector filters and sorts tasks. Title ordering follows the collation
// rules of its locale.
type Projector struct {
	tag language.Tag
}

// NewProjector returns a projector for the given BCP 47 locale. An empty or
// unparseable locale falls back to English.
func NewProjector(locale string) *Projector {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.English
	}
	return &Projector{tag: tag}
}

// Locale returns the projector's collation locale.
func (p *Projector) Locale() language.Tag {
	return p.tag
}

var defaultProjector = NewProjector("en")

// Project filters and sorts tasks with English collation.
func Project(tasks []todo.Task, sel Selection) []todo.Task {
	return defaultProjector.Project(tasks, sel)
}

// Project returns the tasks to display for sel. The input slice is never
// modified; sorting is stable.
func (p *Projector) Project(tasks []todo.Task, sel Selection) []todo.Task {
	out := make([]todo.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, sel) {
			out = append(out, t)
		}
	}

	switch sel.Sort {
	case SortDate:
		sortByDueDate(out)
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	case SortTitle:
		c := collate.New(p.tag)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Title, out[j].Title) < 0
		})
	}
	return out
}

// Matches reports whether a task passes the category and completion filters.
func Matches(t todo.Task, sel Selection) bool {
	category := sel.Category
	if category == "" {
		category = todo.AllCategoryID
	}
	if category != todo.AllCategoryID && t.Category != category {
		return false
	}
	switch sel.Filter {
	case FilterCompleted:
		return t.Completed
	case FilterActive:
		return !t.Completed
	default:
		return true
	}
}

// sortByDueDate orders tasks with a parseable due date ascending. Tasks
// without one stay in the slot they already occupy.
func sortByDueDate(tasks []todo.Task) {
	type dated struct {
		task todo.Task
		unix int64
	}
	var slots []int
	var items []dated
	for i, t := range tasks {
		if d, ok := t.DueDate.Time(); ok {
			slots = append(slots, i)
			items = append(items, dated{task: t, unix: d.Unix()})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].unix < items[j].unix
	})
	for k, i := range slots {
		tasks[i] = items[k].task
	}
}

// CountForCategory counts the tasks shown under a category label.
func CountForCategory(tasks []todo.Task, categoryID string) int {
	n := 0
	for _, t := range tasks {
		if categoryID == todo.AllCategoryID || t.Category == categoryID {
			n++
		}
	}
	return n
}

// CountCompleted counts the completed tasks under a category label.
func CountCompleted(tasks []todo.Task, categoryID string) int {
	n := 0
	for _, t := range tasks {
		if t.Completed && (categoryID == todo.AllCategoryID || t.Category == categoryID) {
			n++
		}
	}
	return n
}

// Counts returns CountForCategory for every category.
func Counts(tasks []todo.Task, categories []todo.Category) map[string]int {
	counts := make(map[string]int, len(categories))
	for _, c := range categories {
		counts[c.ID] = CountForCategory(tasks, c.ID)
	}
	return counts
}
