package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/retailcat/catalogadmin/cli/tui/styles"
)

const NoResultsText = "No results found."

// StatusMessage shows the loading spinner, an error banner or the empty
// state. The spinner sits above any rows still on screen.
type StatusMessage struct {
	spinner spinner.Model
}

func NewStatusMessage() StatusMessage {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle
	return StatusMessage{spinner: s}
}

func (s StatusMessage) Tick() tea.Cmd {
	return s.spinner.Tick
}

func (s StatusMessage) Update(msg tea.Msg) (StatusMessage, tea.Cmd) {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the status line for the given state. An empty string means
// there is nothing to report.
func (s StatusMessage) View(loading bool, err error, empty bool) string {
	switch {
	case loading:
		return s.spinner.View() + " Loading..."
	case err != nil:
		return styles.ErrorStyle.Render("Error " + err.Error())
	case empty:
		return styles.HelpStyle.Render(NoResultsText)
	default:
		return ""
	}
}
