package pages

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/retailcat/catalogadmin/cli/tui/styles"
)

const (
	AppName        = "Retails Products"
	AppDescription = "Sample project for retail products (2023)"
)

type AboutPage struct {
	version string
}

func NewAboutPage(version string) *AboutPage {
	return &AboutPage{version: version}
}

func (a *AboutPage) Init() tea.Cmd          { return nil }
func (a *AboutPage) Update(tea.Msg) tea.Cmd { return nil }
func (a *AboutPage) SetSize(int, int)       {}
func (a *AboutPage) Capturing() bool        { return false }
func (a *AboutPage) Status() string         { return "About" }

func (a *AboutPage) View() string {
	out := styles.RenderTitle(AppName) + "\n\n" + styles.SubtitleStyle.Render(AppDescription)
	if a.version != "" {
		out += "\n\n" + styles.HelpStyle.Render("catalogadmin "+a.version)
	}
	return out
}
