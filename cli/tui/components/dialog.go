package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/retailcat/catalogadmin/cli/tui/styles"
)

type ConfirmMsg struct{}
type DismissMsg struct{}

type DialogKeyMap struct {
	Confirm key.Binding
	Dismiss key.Binding
}

// ConfirmDialog asks before a destructive action. While busy it ignores
// input and shows a progress line.
type ConfirmDialog struct {
	Title  string
	Body   string
	Busy   bool
	keyMap DialogKeyMap
}

func NewConfirmDialog(title, body string) ConfirmDialog {
	return ConfirmDialog{
		Title: title,
		Body:  body,
		keyMap: DialogKeyMap{
			Confirm: newBinding([]string{"y", "Y"}, "delete", "y"),
			Dismiss: newBinding([]string{"n", "N", "esc"}, "cancel", "n/esc"),
		},
	}
}

// NewDeleteDialog builds the "Delete Product (Apple)" confirmation.
func NewDeleteDialog(entityTitle, id, name string) ConfirmDialog {
	return NewConfirmDialog(
		fmt.Sprintf("Delete %s (%s)", entityTitle, name),
		fmt.Sprintf("Are you sure you want to delete %s with id %s?", strings.ToLower(entityTitle), id),
	)
}

func (d ConfirmDialog) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || d.Busy {
		return nil
	}
	switch {
	case key.Matches(keyMsg, d.keyMap.Confirm):
		return func() tea.Msg { return ConfirmMsg{} }
	case key.Matches(keyMsg, d.keyMap.Dismiss):
		return func() tea.Msg { return DismissMsg{} }
	}
	return nil
}

func (d ConfirmDialog) View() string {
	content := styles.ErrorStyle.Render(d.Title) + "\n\n" + d.Body + "\n\n"
	if d.Busy {
		content += styles.InfoStyle.Render("Deleting...")
	} else {
		content += styles.HelpStyle.Render("y delete • n cancel")
	}
	return styles.DangerDialogStyle.Render(content)
}
