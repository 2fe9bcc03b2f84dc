package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/nexus-go/internal/todo"
)

type formKind int

const (
	formAddTask formKind = iota
	formEditTask
	formAddCategory
)

// Field indexes per form kind.
const (
	fieldTitle = iota
	fieldCategory
	fieldPriority
	fieldDue
)

const (
	fieldName = iota
	fieldColor
)

type formField struct {
	label string
	input textinput.Model
}

// form is a modal set of text inputs.
type form struct {
	kind   formKind
	title  string
	fields []formField
	focus  int
	taskID todo.ID
	err    string
	keys   formKeyMap
}

func newField(label, placeholder, value string, limit int) formField {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.SetValue(value)
	return formField{label: label, input: in}
}

func newAddTaskForm(category string) *form {
	return newForm(formAddTask, "New task", []formField{
		newField("Title", "What needs doing?", "", 200),
		newField("Category", "work", category, 64),
		newField("Priority", "high, medium or low", string(todo.PriorityMedium), 6),
		newField("Due", "YYYY-MM-DD", "", 10),
	})
}

func newEditTaskForm(task todo.Task) *form {
	f := newForm(formEditTask, "Edit task", []formField{
		newField("Title", "", task.Title, 200),
	})
	f.taskID = task.ID
	return f
}

func newCategoryForm() *form {
	return newForm(formAddCategory, "New category", []formField{
		newField("Name", "Travel", "", 64),
		newField("Color", todo.DefaultCategoryColor, "", 7),
	})
}

func newForm(kind formKind, title string, fields []formField) *form {
	f := &form{kind: kind, title: title, fields: fields, keys: defaultFormKeyMap()}
	f.fields[0].input.Focus()
	return f
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

func (f *form) setFocus(i int) {
	n := len(f.fields)
	f.fields[f.focus].input.Blur()
	f.focus = ((i % n) + n) % n
	f.fields[f.focus].input.Focus()
}

// formResult is what a key press did to the form.
type formResult int

const (
	formEditing formResult = iota
	formSubmitted
	formCancelled
)

func (f *form) update(msg tea.KeyMsg) (formResult, tea.Cmd) {
	switch {
	case key.Matches(msg, f.keys.Cancel):
		return formCancelled, nil
	case key.Matches(msg, f.keys.Submit):
		return formSubmitted, nil
	case key.Matches(msg, f.keys.Next):
		f.setFocus(f.focus + 1)
		return formEditing, nil
	case key.Matches(msg, f.keys.Prev):
		f.setFocus(f.focus - 1)
		return formEditing, nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return formEditing, cmd
}

func (f *form) view(st styles) string {
	var b strings.Builder
	b.WriteString(st.title.Render(f.title))
	b.WriteString("\n")
	for i, field := range f.fields {
		label := field.label
		if i == f.focus {
			label = "> " + label
		} else {
			label = "  " + label
		}
		b.WriteString(st.formLabel.Render(label))
		b.WriteString(" ")
		b.WriteString(field.input.View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(st.errorText.Render(f.err))
		b.WriteString("\n")
	}
	return st.formBox.Render(b.String())
}
