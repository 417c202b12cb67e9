package pages

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/retailcat/catalogadmin/pkg/livelist"
)

// Page is one screen reachable from the drawer.
type Page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	// Capturing reports whether the page is consuming raw keystrokes, as
	// while typing into a field, so global shortcuts must not fire.
	Capturing() bool
	// Status is shown on the left of the status bar.
	Status() string
}

// TaskDoneMsg carries a controller result back to the page that issued it.
type TaskDoneMsg struct {
	Owner string
	Msg   livelist.Msg
}

// CopiedMsg reports the outcome of copying row ids to the clipboard.
type CopiedMsg struct {
	Owner string
	Count int
	Err   error
}

// VersionMsg carries the backend version for the page's API.
type VersionMsg struct {
	Owner   string
	Version string
	Err     error
}
