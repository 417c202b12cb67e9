package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
)

func newTestWrapper(t *testing.T) *FormWrapper {
	t.Helper()
	var name string
	return NewFormWrapper(t.Context(), "Configure", huh.NewForm(huh.NewGroup(huh.NewInput().Title("Name").Value(&name))))
}

func TestFormWrapper(t *testing.T) {
	t.Run("Should cancel on esc", func(t *testing.T) {
		w := newTestWrapper(t)
		_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEsc})
		assert.NotNil(t, cmd)
		assert.True(t, w.IsCanceled())
		assert.False(t, w.IsCompleted())
		assert.Empty(t, w.View())
	})

	t.Run("Should cancel on ctrl+c", func(t *testing.T) {
		w := newTestWrapper(t)
		_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		assert.NotNil(t, cmd)
		assert.True(t, w.IsCanceled())
		assert.True(t, w.IsQuitting())
	})

	t.Run("Should keep q as input", func(t *testing.T) {
		w := newTestWrapper(t)
		w.Init()
		w.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		assert.False(t, w.IsCanceled())
		assert.Contains(t, w.View(), "Configure")
	})
}
