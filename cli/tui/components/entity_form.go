package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/retailcat/catalogadmin/cli/tui/styles"
	"github.com/retailcat/catalogadmin/pkg/catalog"
)

type FieldKind int

const (
	FieldText FieldKind = iota
	FieldChoice
	FieldToggle
)

// FieldSpec binds one form field to a draft property. Key matches the
// property name used in validation messages.
type FieldSpec[T catalog.Entity] struct {
	Key     string
	Label   string
	Kind    FieldKind
	Options []string
	Get     func(T) string
	Set     func(*T, string)
}

// DraftEditor is the part of the list controller the form drives.
type DraftEditor[T catalog.Entity] interface {
	Draft() (T, bool)
	UpdateDraft(fn func(*T)) error
	ValidateField(field string) string
	FieldErrors() map[string]string
	Warning() string
	DraftErr() error
	Saving() bool
}

type FormSubmitMsg struct{}
type FormCancelMsg struct{}

type FormKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Toggle key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		Next:   newBinding([]string{"tab", "down"}, "next field", "tab"),
		Prev:   newBinding([]string{"shift+tab", "up"}, "previous field", "shift+tab"),
		Left:   newBinding([]string{"left"}, "previous option", "←"),
		Right:  newBinding([]string{"right"}, "next option", "→"),
		Toggle: newBinding([]string{" "}, "toggle", "space"),
		Submit: newBinding([]string{"ctrl+s", "enter"}, "save", "enter"),
		Cancel: newBinding([]string{"esc"}, "cancel", "esc"),
	}
}

// EntityForm edits the controller's draft. Leaving a field validates it;
// submitting is left to the host, which asks the controller to validate the
// whole draft.
type EntityForm[T catalog.Entity] struct {
	title  string
	fields []FieldSpec[T]
	inputs []textinput.Model
	focus  int
	editor DraftEditor[T]
	keyMap FormKeyMap
	width  int
}

func NewEntityForm[T catalog.Entity](title string, fields []FieldSpec[T], editor DraftEditor[T]) *EntityForm[T] {
	f := &EntityForm[T]{
		title:  title,
		fields: fields,
		inputs: make([]textinput.Model, len(fields)),
		editor: editor,
		keyMap: DefaultFormKeyMap(),
	}
	draft, _ := editor.Draft()
	for i, spec := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 120
		in.SetValue(spec.Get(draft))
		f.inputs[i] = in
	}
	f.focusField(0)
	return f
}

func (f *EntityForm[T]) SetWidth(w int) {
	f.width = w
	for i := range f.inputs {
		f.inputs[i].Width = max(10, w-20)
	}
}

// Focused returns the key of the focused field.
func (f *EntityForm[T]) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focus].Key
}

func (f *EntityForm[T]) focusField(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	if f.fields[f.focus].Kind == FieldText {
		return f.inputs[f.focus].Focus()
	}
	return nil
}

// move blurs the current field, which validates it, and focuses another.
func (f *EntityForm[T]) move(delta int) tea.Cmd {
	f.editor.ValidateField(f.fields[f.focus].Key)
	return f.focusField(f.focus + delta)
}

func (f *EntityForm[T]) set(i int, value string) {
	spec := f.fields[i]
	f.inputs[i].SetValue(value)
	_ = f.editor.UpdateDraft(func(d *T) { spec.Set(d, value) })
}

func (f *EntityForm[T]) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(f.fields) == 0 {
		return nil
	}
	if f.editor.Saving() {
		return nil
	}
	spec := f.fields[f.focus]
	switch {
	case key.Matches(keyMsg, f.keyMap.Cancel):
		return func() tea.Msg { return FormCancelMsg{} }
	case key.Matches(keyMsg, f.keyMap.Submit):
		f.editor.ValidateField(spec.Key)
		return func() tea.Msg { return FormSubmitMsg{} }
	case key.Matches(keyMsg, f.keyMap.Next):
		return f.move(1)
	case key.Matches(keyMsg, f.keyMap.Prev):
		return f.move(-1)
	}
	switch spec.Kind {
	case FieldChoice:
		switch {
		case key.Matches(keyMsg, f.keyMap.Left):
			f.set(f.focus, cycle(spec.Options, f.inputs[f.focus].Value(), -1))
		case key.Matches(keyMsg, f.keyMap.Right), key.Matches(keyMsg, f.keyMap.Toggle):
			f.set(f.focus, cycle(spec.Options, f.inputs[f.focus].Value(), 1))
		}
		return nil
	case FieldToggle:
		if key.Matches(keyMsg, f.keyMap.Toggle) {
			next := "true"
			if f.inputs[f.focus].Value() == "true" {
				next = "false"
			}
			f.set(f.focus, next)
		}
		return nil
	}
	var cmd tea.Cmd
	before := f.inputs[f.focus].Value()
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if after := f.inputs[f.focus].Value(); after != before {
		_ = f.editor.UpdateDraft(func(d *T) { spec.Set(d, after) })
	}
	return cmd
}

func cycle(options []string, cur string, delta int) string {
	if len(options) == 0 {
		return cur
	}
	i := slices.Index(options, cur)
	if i < 0 {
		if delta > 0 {
			return options[0]
		}
		return options[len(options)-1]
	}
	return options[(i+delta+len(options))%len(options)]
}

func (f *EntityForm[T]) View() string {
	var b strings.Builder
	b.WriteString(styles.RenderTitle(f.title))
	b.WriteString("\n\n")
	errs := f.editor.FieldErrors()
	for i, spec := range f.fields {
		label := styles.LabelStyle
		if i == f.focus {
			label = styles.FocusedLabelStyle
		}
		b.WriteString(label.Width(10).Render(spec.Label))
		b.WriteString(" ")
		b.WriteString(f.renderValue(i))
		b.WriteString("\n")
		if msg := errs[spec.Key]; msg != "" {
			b.WriteString(lipgloss.NewStyle().PaddingLeft(11).Render(styles.FieldErrorStyle.Render(msg)))
			b.WriteString("\n")
		}
	}
	if w := f.editor.Warning(); w != "" {
		b.WriteString("\n" + styles.WarningStyle.Render(w) + "\n")
	}
	if err := f.editor.DraftErr(); err != nil {
		b.WriteString("\n" + styles.ErrorStyle.Render("Error "+err.Error()) + "\n")
	}
	if f.editor.Saving() {
		b.WriteString("\n" + styles.InfoStyle.Render("Saving...") + "\n")
	}
	b.WriteString("\n" + styles.HelpStyle.Render("tab next • enter save • esc cancel"))
	return styles.DialogStyle.Render(b.String())
}

func (f *EntityForm[T]) renderValue(i int) string {
	spec := f.fields[i]
	value := f.inputs[i].Value()
	switch spec.Kind {
	case FieldChoice:
		if value == "" {
			value = "(select)"
		}
		return fmt.Sprintf("◀ %s ▶", value)
	case FieldToggle:
		return checkbox(value == "true")
	default:
		return f.inputs[i].View()
	}
}
