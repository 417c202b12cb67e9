package styles

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary   = lipgloss.AdaptiveColor{Light: "#1B5E20", Dark: "#04B575"}
	Secondary = lipgloss.AdaptiveColor{Light: "#37474F", Dark: "#B0BEC5"}
	Highlight = lipgloss.AdaptiveColor{Light: "#0D47A1", Dark: "#82AAFF"}
	Surface   = lipgloss.AdaptiveColor{Light: "#ECEFF1", Dark: "#263238"}
	Border    = lipgloss.AdaptiveColor{Light: "#B0BEC5", Dark: "#455A64"}
	Muted     = lipgloss.AdaptiveColor{Light: "#78909C", Dark: "#888888"}
	Danger    = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"}
	Warning   = lipgloss.AdaptiveColor{Light: "#E65100", Dark: "#FFB86C"}
	Success   = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#50FA7B"}
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().Foreground(Secondary)

	InfoStyle    = lipgloss.NewStyle().Foreground(Highlight)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Danger).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)

	HelpStyle     = lipgloss.NewStyle().Foreground(Muted)
	HelpKeyStyle  = lipgloss.NewStyle().Foreground(Highlight).Bold(true)
	HelpDescStyle = lipgloss.NewStyle().Foreground(Muted)

	SpinnerStyle    = lipgloss.NewStyle().Foreground(Primary)
	PaginationStyle = lipgloss.NewStyle().Foreground(Muted).Padding(0, 1)
	ActivePageStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	HeaderCellStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(Border)
	CellStyle        = lipgloss.NewStyle()
	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(Highlight).
				Background(Surface).
				Bold(true)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(1, 2)
	DangerDialogStyle = DialogStyle.BorderForeground(Danger)

	LabelStyle        = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	FocusedLabelStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	FieldErrorStyle   = lipgloss.NewStyle().Foreground(Danger).Italic(true)

	DrawerStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(Border).
			Padding(0, 1)
	DrawerItemStyle       = lipgloss.NewStyle().Foreground(Secondary)
	DrawerActiveItemStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Background(Surface).
			Padding(0, 1)
)

func RenderTitle(title string) string {
	return TitleStyle.Render(title)
}

// RenderStatusBar lays out left and right text across width.
func RenderStatusBar(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := left + lipgloss.NewStyle().Width(gap).Render("") + right
	return StatusBarStyle.Width(max(width, 0)).Render(line)
}
