package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/retailcat/catalogadmin/cli/tui/styles"
)

const escKey = "esc"

// ShortcutCategory is one titled group of the help overlay.
type ShortcutCategory struct {
	Name      string
	Shortcuts [][2]string
}

// NewShortcutCategory lists the help text of the enabled bindings.
func NewShortcutCategory(name string, bindings ...key.Binding) ShortcutCategory {
	c := ShortcutCategory{Name: name}
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		c.Shortcuts = append(c.Shortcuts, [2]string{h.Key, h.Desc})
	}
	return c
}

// KeyboardShortcuts is the "?" overlay listing every key the admin reacts to.
type KeyboardShortcuts struct {
	Width      int
	Height     int
	Visible    bool
	Categories []ShortcutCategory
}

// NewKeyboardShortcuts builds the overlay. Without categories it shows the
// table and form bindings only.
func NewKeyboardShortcuts(categories ...ShortcutCategory) KeyboardShortcuts {
	if len(categories) == 0 {
		categories = []ShortcutCategory{TableShortcuts(), FormShortcuts()}
	}
	return KeyboardShortcuts{Categories: categories}
}

func TableShortcuts() ShortcutCategory {
	km := DefaultTableKeyMap()
	return NewShortcutCategory("Table", km.Up, km.Down, km.PageUp, km.PageDown,
		km.Top, km.Bottom, km.SortBy, km.ToggleRow, km.ToggleAll)
}

func FormShortcuts() ShortcutCategory {
	km := DefaultFormKeyMap()
	return NewShortcutCategory("Editing", km.Next, km.Prev, km.Left, km.Right,
		km.Toggle, km.Submit, km.Cancel)
}

func (k *KeyboardShortcuts) SetSize(width, height int) {
	k.Width = width
	k.Height = height
}

func (k *KeyboardShortcuts) Toggle() {
	k.Visible = !k.Visible
}

// Update closes the overlay on esc, q or ?.
func (k *KeyboardShortcuts) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !k.Visible {
		return nil
	}
	switch keyMsg.String() {
	case escKey, "q", "?":
		k.Visible = false
	}
	return nil
}

func (k *KeyboardShortcuts) View() string {
	if !k.Visible {
		return ""
	}
	content := styles.RenderTitle("Keyboard Shortcuts") + "\n\n" +
		k.renderColumns() + "\n" +
		styles.HelpStyle.Render("Press esc, q or ? to close")
	dialog := styles.DialogStyle.
		Width(max(k.Width-4, 20)).
		Render(content)
	return lipgloss.Place(k.Width, k.Height, lipgloss.Center, lipgloss.Center, dialog)
}

func (k *KeyboardShortcuts) columns() int {
	switch {
	case k.Width > 110:
		return 3
	case k.Width > 70:
		return 2
	default:
		return 1
	}
}

// renderColumns spreads the categories over as many columns as fit.
func (k *KeyboardShortcuts) renderColumns() string {
	cols := min(k.columns(), max(len(k.Categories), 1))
	perCol := (len(k.Categories) + cols - 1) / cols
	rendered := make([]string, 0, cols)
	for start := 0; start < len(k.Categories); start += perCol {
		end := min(start+perCol, len(k.Categories))
		parts := make([]string, 0, end-start)
		for _, c := range k.Categories[start:end] {
			parts = append(parts, renderCategory(c))
		}
		rendered = append(rendered, lipgloss.NewStyle().PaddingRight(4).Render(strings.Join(parts, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderCategory(c ShortcutCategory) string {
	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Bold(true).Render(c.Name))
	b.WriteString("\n")
	for _, s := range c.Shortcuts {
		b.WriteString("  ")
		b.WriteString(styles.HelpKeyStyle.Width(12).Render(s[0]))
		b.WriteString(styles.HelpDescStyle.Render(s[1]))
		b.WriteString("\n")
	}
	return b.String()
}
