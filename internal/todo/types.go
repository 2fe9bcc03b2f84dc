package todo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AllCategoryID is the reserved category meaning "no category filter".
const AllCategoryID = "all"

// UnknownCategoryName is shown for tasks whose category no longer exists.
const UnknownCategoryName = "Unknown"

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#c7b299"

var (
	// ErrInvalidPatch is returned when a task patch fails validation.
	ErrInvalidPatch = errors.New("invalid task patch")
	// ErrInvalidCategory is returned when category fields fail validation.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrReservedCategory is returned when an operation targets the "all" category.
	ErrReservedCategory = errors.New("reserved category")
)

// ID identifies a task. It is the creation time in unix milliseconds.
type ID int64

// String returns the decimal form of the ID.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a decimal task ID.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: %w", s, err)
	}
	return ID(n), nil
}

// Priority represents a task priority.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists the valid priorities from most to least urgent.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities: high is 0, medium 1, low 2.
// Unknown priorities rank after low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ParsePriority parses a priority name, ignoring case and surrounding space.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q, must be one of: high, medium, low", s)
	}
	return p, nil
}

// DueDate is a calendar date as entered by the user. It may be empty or
// unparseable; such dates have no position in date ordering.
type DueDate string

// DateLayout is the canonical due date layout.
const DateLayout = "2006-01-02"

// Time parses the due date. It accepts YYYY-MM-DD and RFC 3339.
func (d DueDate) Time() (time.Time, bool) {
	s := strings.TrimSpace(string(d))
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Valid reports whether the due date parses.
func (d DueDate) Valid() bool {
	_, ok := d.Time()
	return ok
}

// Format renders the date like "Jan 10, 2024", or "No date".
func (d DueDate) Format() string {
	t, ok := d.Time()
	if !ok {
		return "No date"
	}
	return t.Format("Jan 2, 2006")
}

// ParseDueDate validates a user supplied date. The empty string is allowed
// and means no due date.
func ParseDueDate(s string) (DueDate, error) {
	d := DueDate(strings.TrimSpace(s))
	if d == "" || d.Valid() {
		return d, nil
	}
	return "", fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", s)
}

// Task represents a single task in the list.
type Task struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Priority  Priority  `json:"priority"`
	DueDate   DueDate   `json:"dueDate"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskFields are the user supplied fields of a new task.
type TaskFields struct {
	Title    string
	Category string
	Priority Priority
	DueDate  DueDate
}

// Patch is a partial task update. Nil fields are left untouched.
type Patch struct {
	Title     *string
	Category  *string
	Priority  *Priority
	DueDate   *DueDate
	Completed *bool
}

// IsEmpty reports whether the patch sets no field.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Category == nil && p.Priority == nil &&
		p.DueDate == nil && p.Completed == nil
}

// Validate checks the fields the patch sets.
func (p Patch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidPatch)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: invalid priority %q", ErrInvalidPatch, *p.Priority)
	}
	if p.DueDate != nil && *p.DueDate != "" && !p.DueDate.Valid() {
		return fmt.Errorf("%w: invalid due date %q", ErrInvalidPatch, *p.DueDate)
	}
	return nil
}

func (p Patch) apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// Category is a named, colored grouping label.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// CategoryFields are the user supplied fields of a new category.
// Icon defaults to the first letter of Name, uppercased.
type CategoryFields struct {
	Name  string
	Color string
	Icon  string
}

// SeedCategories returns the categories used when none are stored.
func SeedCategories() []Category {
	return []Category{
		{ID: AllCategoryID, Name: "All Tasks", Icon: "A", Color: "#c7b299"},
		{ID: "work", Name: "Work", Icon: "W", Color: "#4caf50"},
		{ID: "personal", Name: "Personal", Icon: "P", Color: "#2196f3"},
		{ID: "shopping", Name: "Shopping", Icon: "S", Color: "#ff9800"},
		{ID: "health", Name: "Health", Icon: "H", Color: "#f44336"},
	}
}
