package components

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestShortcutCategory(t *testing.T) {
	t.Run("Should list help text of enabled bindings only", func(t *testing.T) {
		on := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
		off := key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "gone"), key.WithDisabled())
		c := NewShortcutCategory("Lists", on, off)
		assert.Equal(t, "Lists", c.Name)
		assert.Equal(t, [][2]string{{"r", "refresh"}}, c.Shortcuts)
	})
}

func TestKeyboardShortcuts(t *testing.T) {
	t.Run("Should default to table and editing groups", func(t *testing.T) {
		k := NewKeyboardShortcuts()
		assert.Len(t, k.Categories, 2)
		assert.Equal(t, "Table", k.Categories[0].Name)
		assert.Equal(t, "Editing", k.Categories[1].Name)
	})
	t.Run("Should render nothing while hidden", func(t *testing.T) {
		k := NewKeyboardShortcuts()
		k.SetSize(100, 40)
		assert.Empty(t, k.View())
	})
	t.Run("Should render every category when visible", func(t *testing.T) {
		k := NewKeyboardShortcuts()
		k.SetSize(120, 50)
		k.Toggle()
		view := k.View()
		assert.Contains(t, view, "Keyboard Shortcuts")
		assert.Contains(t, view, "Table")
		assert.Contains(t, view, "Editing")
		assert.Contains(t, view, "select all")
	})
	t.Run("Should close on esc", func(t *testing.T) {
		k := NewKeyboardShortcuts()
		k.Toggle()
		k.Update(tea.KeyMsg{Type: tea.KeyEsc})
		assert.False(t, k.Visible)
	})
	t.Run("Should ignore other keys", func(t *testing.T) {
		k := NewKeyboardShortcuts()
		k.Toggle()
		k.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
		assert.True(t, k.Visible)
	})
}
