package components

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/retailcat/catalogadmin/cli/tui/models"
	"github.com/retailcat/catalogadmin/cli/tui/styles"
)

// FormWrapper runs a huh form as a standalone program for one-shot
// commands such as "config init".
type FormWrapper struct {
	models.BaseModel
	title     string
	form      *huh.Form
	canceled  bool
	completed bool
}

func NewFormWrapper(ctx context.Context, title string, form *huh.Form) *FormWrapper {
	return &FormWrapper{
		BaseModel: models.NewBaseModel(ctx, models.ModeTUI),
		title:     title,
		form:      form,
	}
}

func (f *FormWrapper) Init() tea.Cmd {
	return f.form.Init()
}

func (f *FormWrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd := f.BaseModel.Update(msg); cmd != nil {
		f.canceled = true
		return f, cmd
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == escKey {
		f.canceled = true
		return f, tea.Quit
	}
	form, cmd := f.form.Update(msg)
	if frm, ok := form.(*huh.Form); ok {
		f.form = frm
	}
	switch f.form.State {
	case huh.StateCompleted:
		f.completed = true
		return f, tea.Quit
	case huh.StateAborted:
		f.canceled = true
		return f, tea.Quit
	}
	return f, cmd
}

func (f *FormWrapper) View() string {
	if f.completed || f.canceled {
		return ""
	}
	return styles.RenderTitle(f.title) + "\n\n" + f.form.View() + "\n" +
		styles.HelpStyle.Render("esc cancel")
}

func (f *FormWrapper) IsCanceled() bool  { return f.canceled }
func (f *FormWrapper) IsCompleted() bool { return f.completed }

// Run shows the form until it is submitted or cancelled and reports
// whether it was submitted.
func (f *FormWrapper) Run() (bool, error) {
	if _, err := tea.NewProgram(f, tea.WithContext(f.Context())).Run(); err != nil {
		return false, fmt.Errorf("failed to run form: %w", err)
	}
	return f.completed && !f.canceled, nil
}
