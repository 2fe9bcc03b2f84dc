// Package ui provides the terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/nexus-go/internal/app"
	"github.com/nibzard/nexus-go/internal/todo"
	"github.com/nibzard/nexus-go/internal/view"
)

// toastTTL is how long a notification stays on screen.
const toastTTL = 3 * time.Second

// EventQueue collects repository events until the UI drains them after
// each update. Pass it to app.Open with app.WithNotifier.
type EventQueue struct {
	events []todo.Event
}

// Notify implements todo.Notifier.
func (q *EventQueue) Notify(e todo.Event) {
	q.events = append(q.events, e)
}

func (q *EventQueue) drain() []todo.Event {
	events := q.events
	q.events = nil
	return events
}

// Run starts the terminal UI over an open session. The session must have
// been opened with queue as its notifier.
func Run(ctx context.Context, a *app.App, queue *EventQueue) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(a, queue)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type toast struct {
	id      int
	text    string
	failure bool
}

type toastExpiredMsg struct {
	id int
}

type tuiModel struct {
	app           *app.App
	queue         *EventQueue
	sel           view.Selection
	visible       []todo.Task
	cursor        int
	keys          keyMap
	help          help.Model
	showHelp      bool
	form          *form
	toasts        []toast
	nextToast     int
	notifications bool
	styles        styles
	width         int
	height        int
}

func newTUIModel(a *app.App, queue *EventQueue) *tuiModel {
	if queue == nil {
		queue = &EventQueue{}
	}
	m := &tuiModel{
		app:           a,
		queue:         queue,
		sel:           a.DefaultSelection(),
		keys:          defaultKeyMap(),
		help:          help.New(),
		notifications: a.Config().Notifications,
		styles:        newStyles(a.Theme.AccentColor(), a.Theme.Dark()),
	}
	a.Theme.Subscribe(func(accent string) {
		m.styles = newStyles(accent, a.Theme.Dark())
	})
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return tea.SetWindowTitle("nexus")
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case toastExpiredMsg:
		m.expireToast(msg.id)
		return m, nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		if m.form != nil {
			cmd = m.updateForm(msg)
		} else {
			cmd = m.handleKey(msg)
		}
		if flush := m.flushEvents(); flush != nil {
			return m, tea.Batch(cmd, flush)
		}
		return m, cmd
	}
	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	ctx := context.Background()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.current(); ok {
			_, _ = m.app.Tasks.ToggleComplete(ctx, task.ID)
			m.refresh()
		}
	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.current(); ok {
			_, _ = m.app.Tasks.Delete(ctx, task.ID)
			m.refresh()
		}
	case key.Matches(msg, m.keys.Add):
		m.form = newAddTaskForm(m.defaultCategory())
		return textinput.Blink
	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.current(); ok {
			m.form = newEditTaskForm(task)
			return textinput.Blink
		}
	case key.Matches(msg, m.keys.AddCategory):
		m.form = newCategoryForm()
		return textinput.Blink
	case key.Matches(msg, m.keys.NextCategory):
		m.cycleCategory(1)
	case key.Matches(msg, m.keys.PrevCategory):
		m.cycleCategory(-1)
	case key.Matches(msg, m.keys.Filter):
		m.sel.Filter = m.sel.Filter.Next()
		m.refresh()
	case key.Matches(msg, m.keys.Sort):
		m.sel.Sort = m.sel.Sort.Next()
		m.refresh()
	case key.Matches(msg, m.keys.MoveDown):
		m.moveTask(1)
	case key.Matches(msg, m.keys.MoveUp):
		m.moveTask(-1)
	case key.Matches(msg, m.keys.Theme):
		if err := m.app.Theme.Toggle(ctx); err != nil {
			m.queue.Notify(todo.Event{Kind: todo.EventSaveFailed, Message: "Failed to save theme", Err: err})
		}
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return nil
}

func (m *tuiModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	result, cmd := m.form.update(msg)
	switch result {
	case formCancelled:
		m.form = nil
	case formSubmitted:
		if err := m.submitForm(); err != nil {
			m.form.err = err.Error()
			return nil
		}
		m.form = nil
		m.refresh()
	}
	return cmd
}

func (m *tuiModel) submitForm() error {
	ctx := context.Background()
	f := m.form
	switch f.kind {
	case formAddTask:
		title := f.value(fieldTitle)
		if title == "" {
			return errors.New("title is required")
		}
		category := f.value(fieldCategory)
		if _, ok := m.app.Categories.Get(category); !ok || category == todo.AllCategoryID {
			return fmt.Errorf("unknown category %q", category)
		}
		priority, err := todo.ParsePriority(f.value(fieldPriority))
		if err != nil {
			return err
		}
		due, err := todo.ParseDueDate(f.value(fieldDue))
		if err != nil {
			return err
		}
		task, err := m.app.Tasks.Create(ctx, todo.TaskFields{
			Title:    title,
			Category: category,
			Priority: priority,
			DueDate:  due,
		})
		m.refresh()
		m.selectTask(task.ID)
		return saveErr(err)
	case formEditTask:
		title := f.value(fieldTitle)
		_, err := m.app.Tasks.Update(ctx, f.taskID, todo.Patch{Title: &title})
		if errors.Is(err, todo.ErrInvalidPatch) {
			return errors.New("title is required")
		}
		return saveErr(err)
	case formAddCategory:
		_, err := m.app.Categories.Create(ctx, todo.CategoryFields{
			Name:  f.value(fieldName),
			Color: f.value(fieldColor),
		})
		if errors.Is(err, todo.ErrInvalidCategory) {
			return errors.New("name is required")
		}
		return saveErr(err)
	}
	return nil
}

// saveErr drops storage errors: the notifier already reported them and the
// change is kept in memory.
func saveErr(err error) error {
	if err == nil || errors.Is(err, todo.ErrInvalidPatch) || errors.Is(err, todo.ErrInvalidCategory) {
		return err
	}
	return nil
}

// flushEvents turns pending repository events into toasts.
func (m *tuiModel) flushEvents() tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range m.queue.drain() {
		if e.Message == "" {
			continue
		}
		failure := e.Kind == todo.EventSaveFailed
		if !failure && !m.notifications {
			continue
		}
		m.nextToast++
		id := m.nextToast
		m.toasts = append(m.toasts, toast{id: id, text: e.Message, failure: failure})
		cmds = append(cmds, tea.Tick(toastTTL, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		}))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *tuiModel) expireToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// refresh re-projects the task list and keeps the cursor in range.
func (m *tuiModel) refresh() {
	if _, ok := m.app.Categories.Get(m.sel.Category); !ok {
		m.sel.Category = todo.AllCategoryID
	}
	m.visible = m.app.Project(m.sel)
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) current() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return todo.Task{}, false
	}
	return m.visible[m.cursor], true
}

func (m *tuiModel) selectTask(id todo.ID) {
	for i, t := range m.visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *tuiModel) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) cycleCategory(delta int) {
	categories := m.app.Categories.Categories()
	idx := 0
	for i, c := range categories {
		if c.ID == m.sel.Category {
			idx = i
			break
		}
	}
	n := len(categories)
	m.sel.Category = categories[((idx+delta)%n+n)%n].ID
	m.cursor = 0
	m.refresh()
}

// moveTask swaps the selected task with its visible neighbour in the
// stored order.
func (m *tuiModel) moveTask(delta int) {
	task, ok := m.current()
	if !ok {
		return
	}
	j := m.cursor + delta
	if j < 0 || j >= len(m.visible) {
		return
	}
	neighbour := m.visible[j].ID

	all := m.app.Tasks.Tasks()
	ids := make([]todo.ID, len(all))
	a, b := -1, -1
	for i, t := range all {
		ids[i] = t.ID
		switch t.ID {
		case task.ID:
			a = i
		case neighbour:
			b = i
		}
	}
	if a < 0 || b < 0 {
		return
	}
	ids[a], ids[b] = ids[b], ids[a]
	_ = m.app.Tasks.Reorder(context.Background(), ids)
	m.refresh()
	m.selectTask(task.ID)
}

func (m *tuiModel) defaultCategory() string {
	if m.sel.Category != todo.AllCategoryID {
		return m.sel.Category
	}
	for _, c := range m.app.Categories.Categories() {
		if c.ID != todo.AllCategoryID {
			return c.ID
		}
	}
	return ""
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("nexus"))
	b.WriteString("\n")

	if m.form != nil {
		b.WriteString(m.form.view(m.styles))
		b.WriteString("\n")
		writeToasts(&b, m.styles, m.toasts)
		b.WriteString(m.help.View(m.form.keys))
		return b.String()
	}

	sidebar := m.sidebarView()
	main := m.taskListView()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.styles.sidebar.Render(sidebar), "  ", main))
	b.WriteString("\n\n")
	writeToasts(&b, m.styles, m.toasts)
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *tuiModel) sidebarView() string {
	var b strings.Builder
	tasks := m.app.Tasks.Tasks()
	for _, c := range m.app.Categories.Categories() {
		icon := categoryColor(c).Render(c.Icon)
		line := fmt.Sprintf("%s %s (%d)", icon, c.Name, view.CountForCategory(tasks, c.ID))
		if c.ID == m.sel.Category {
			b.WriteString(m.styles.selected.Render("> " + line))
		} else {
			b.WriteString(m.styles.category.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(fmt.Sprintf("%d of %d done",
		view.CountCompleted(tasks, m.sel.Category), view.CountForCategory(tasks, m.sel.Category))))
	return b.String()
}

func (m *tuiModel) taskListView() string {
	var b strings.Builder
	b.WriteString(m.styles.status.Render(fmt.Sprintf("%s | filter: %s | sort: %s | theme: %s",
		m.app.Categories.Name(m.sel.Category), m.sel.Filter, m.sel.Sort, m.app.Theme.Name())))
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString(m.styles.muted.Render("No tasks here. Press a to add one."))
		b.WriteString("\n")
		return b.String()
	}
	for i, t := range m.visible {
		b.WriteString(m.formatTask(t, i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *tuiModel) formatTask(t todo.Task, selected bool) string {
	pointer := "  "
	if selected {
		pointer = m.styles.cursor.Render("> ")
	}
	check := "[ ]"
	title := t.Title
	if t.Completed {
		check = "[x]"
		title = m.styles.done.Render(title)
	}
	meta := m.styles.muted.Render(fmt.Sprintf("%s · %s", m.app.Categories.Name(t.Category), t.DueDate.Format()))
	priority := priorityStyle(t.Priority).Render(string(t.Priority))
	return fmt.Sprintf("%s%s %s  %s  %s", pointer, check, title, priority, meta)
}

func writeToasts(b *strings.Builder, st styles, toasts []toast) {
	for _, t := range toasts {
		if t.failure {
			b.WriteString(st.failure.Render(t.text))
		} else {
			b.WriteString(st.toast.Render(t.text))
		}
		b.WriteString("\n")
	}
	if len(toasts) > 0 {
		b.WriteString("\n")
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
