package models

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/retailcat/catalogadmin/pkg/logger"
)

// Mode is the output mode of a command.
type Mode string

const (
	ModeTUI  Mode = "tui"
	ModeJSON Mode = "json"
)

// BaseModel is embedded by the full-screen models. It tracks the terminal
// size and the quit request, and carries the command context.
type BaseModel struct {
	ctx      context.Context
	mode     Mode
	width    int
	height   int
	quitting bool
}

func NewBaseModel(ctx context.Context, mode Mode) BaseModel {
	return BaseModel{ctx: ctx, mode: mode}
}

func (m BaseModel) Context() context.Context { return m.ctx }
func (m BaseModel) Mode() Mode               { return m.mode }
func (m BaseModel) Logger() logger.Logger    { return logger.FromContext(m.ctx) }

func (m BaseModel) Size() (width, height int) {
	return m.width, m.height
}

func (m BaseModel) IsQuitting() bool {
	return m.quitting
}

func (m *BaseModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *BaseModel) Quit() {
	m.quitting = true
}

// Update handles resize and ctrl+c. Plain "q" is left to the caller since
// it is also a valid character in text inputs.
func (m *BaseModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Quit()
			return tea.Quit
		}
	}
	return nil
}
