package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/retailcat/catalogadmin/cli/tui/styles"
)

// NavItem is one destination in the navigation drawer.
type NavItem struct {
	Key   string
	Label string
}

// Drawer is the collapsible navigation menu on the left.
type Drawer struct {
	Items  []NavItem
	Active int
	Open   bool
	Width  int
}

func NewDrawer(items []NavItem, open bool) Drawer {
	return Drawer{Items: items, Open: open, Width: 18}
}

func (d *Drawer) Toggle() {
	d.Open = !d.Open
}

// Select moves to the item with the given key. Unknown keys are ignored.
func (d *Drawer) Select(itemKey string) bool {
	for i, it := range d.Items {
		if it.Key == itemKey {
			d.Active = i
			return true
		}
	}
	return false
}

// Step moves the active item by delta, wrapping around.
func (d *Drawer) Step(delta int) {
	if len(d.Items) == 0 {
		return
	}
	d.Active = (d.Active + delta + len(d.Items)) % len(d.Items)
}

func (d Drawer) Current() NavItem {
	if d.Active < 0 || d.Active >= len(d.Items) {
		return NavItem{}
	}
	return d.Items[d.Active]
}

func (d Drawer) View(height int) string {
	lines := make([]string, 0, len(d.Items))
	for i, it := range d.Items {
		if i == d.Active {
			lines = append(lines, styles.DrawerActiveItemStyle.Render("› "+it.Label))
			continue
		}
		lines = append(lines, styles.DrawerItemStyle.Render("  "+it.Label))
	}
	return styles.DrawerStyle.
		Width(d.Width).
		Height(max(height, 0)).
		Render(strings.Join(lines, "\n"))
}

// Layout composes the title bar, drawer, content and status bar.
type Layout struct {
	Width     int
	Height    int
	Title     string
	Drawer    Drawer
	Shortcuts KeyboardShortcuts
}

func NewLayout(title string, drawer Drawer) Layout {
	return Layout{
		Title:     title,
		Drawer:    drawer,
		Shortcuts: NewKeyboardShortcuts(),
	}
}

func (l *Layout) SetSize(width, height int) {
	l.Width = width
	l.Height = height
	l.Shortcuts.SetSize(width, height)
}

// ContentSize is the room left for the active page.
func (l Layout) ContentSize() (width, height int) {
	width = l.Width - 2
	if l.Drawer.Open {
		width -= l.Drawer.Width + 3
	}
	// title bar and status bar
	height = l.Height - 3
	return max(width, 0), max(height, 0)
}

func (l Layout) View(content, statusLeft, statusRight string) string {
	if l.Width <= 0 || l.Height <= 0 {
		return ""
	}
	if l.Shortcuts.Visible {
		return l.Shortcuts.View()
	}
	_, h := l.ContentSize()
	main := lipgloss.NewStyle().Padding(0, 1).Height(h).Render(content)
	if l.Drawer.Open {
		main = lipgloss.JoinHorizontal(lipgloss.Top, l.Drawer.View(h), main)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.RenderTitle(l.Title)+"\n",
		main,
		styles.RenderStatusBar(statusLeft, statusRight, l.Width),
	)
}
