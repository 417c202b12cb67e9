package components

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/retailcat/catalogadmin/cli/helpers"
	"github.com/retailcat/catalogadmin/cli/tui/styles"
	"github.com/retailcat/catalogadmin/pkg/catalog"
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) position() lipgloss.Position {
	switch a {
	case AlignCenter:
		return lipgloss.Center
	case AlignRight:
		return lipgloss.Right
	default:
		return lipgloss.Left
	}
}

// Column describes one table column. Value is the sort key and the default
// cell text; Render overrides the cell text for computed or action cells.
type Column[T catalog.Row] struct {
	Key      string
	Heading  string
	Align    Align
	Width    int
	Sortable bool
	Value    func(T) any
	Render   func(T) string
}

func (c Column[T]) cell(row T) string {
	if c.Render != nil {
		return c.Render(row)
	}
	if c.Value != nil {
		return fmt.Sprint(c.Value(row))
	}
	return ""
}

// TableKeyMap defines key bindings for the data table
type TableKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Top       key.Binding
	Bottom    key.Binding
	ToggleRow key.Binding
	ToggleAll key.Binding
	SortBy    key.Binding
}

func DefaultTableKeyMap() TableKeyMap {
	return TableKeyMap{
		Up:        newBinding([]string{"up", "k"}, "move up", "↑/k"),
		Down:      newBinding([]string{"down", "j"}, "move down", "↓/j"),
		PageUp:    newBinding([]string{"pgup"}, "scroll up", "pgup"),
		PageDown:  newBinding([]string{"pgdown"}, "scroll down", "pgdn"),
		Top:       newBinding([]string{"home", "g"}, "first row", "home"),
		Bottom:    newBinding([]string{"end", "G"}, "last row", "end"),
		ToggleRow: newBinding([]string{" "}, "select row", "space"),
		ToggleAll: newBinding([]string{"ctrl+a"}, "select all", "ctrl+a"),
		SortBy: newBinding(
			[]string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
			"sort by column", "1-9",
		),
	}
}

func newBinding(keys []string, help, display string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(display, help),
	)
}

// DataTable renders rows according to column metadata with a client-side
// stable sort and optional row selection. Only the rows inside the viewport
// are rendered. It knows nothing about paging or the network.
type DataTable[T catalog.Row] struct {
	columns    []Column[T]
	rows       []T
	view       []T
	sortKey    string
	ascending  bool
	selectable bool
	selected   map[string]struct{}
	cursor     int
	offset     int
	width      int
	height     int
	keyMap     TableKeyMap
}

func NewDataTable[T catalog.Row](columns []Column[T], selectable bool) *DataTable[T] {
	return &DataTable[T]{
		columns:    columns,
		selectable: selectable,
		selected:   make(map[string]struct{}),
		height:     10,
		keyMap:     DefaultTableKeyMap(),
	}
}

func (t *DataTable[T]) KeyMap() TableKeyMap { return t.keyMap }

// SetRows replaces the input rows, re-applies the active sort and drops
// selected ids that are no longer present.
func (t *DataTable[T]) SetRows(rows []T) {
	t.rows = rows
	present := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		present[r.GetID()] = struct{}{}
	}
	for id := range t.selected {
		if _, ok := present[id]; !ok {
			delete(t.selected, id)
		}
	}
	t.resort()
	t.clampCursor()
}

// Rows returns the rows in display order.
func (t *DataTable[T]) Rows() []T {
	return t.view
}

func (t *DataTable[T]) SetSize(width, height int) {
	t.width = width
	// header takes two lines
	t.height = max(1, height-2)
	t.clampCursor()
}

// SortState returns the active column key and direction; key is empty
// while rows are in input order.
func (t *DataTable[T]) SortState() (string, bool) {
	return t.sortKey, t.ascending
}

// ToggleSort flips the direction of the active column or activates another
// sortable column ascending. Unknown or unsortable keys are ignored.
func (t *DataTable[T]) ToggleSort(colKey string) {
	col, ok := t.column(colKey)
	if !ok || !col.Sortable {
		return
	}
	if t.sortKey == colKey {
		t.ascending = !t.ascending
	} else {
		t.sortKey = colKey
		t.ascending = true
	}
	t.resort()
}

func (t *DataTable[T]) column(colKey string) (Column[T], bool) {
	for _, c := range t.columns {
		if c.Key == colKey {
			return c, true
		}
	}
	return Column[T]{}, false
}

type indexedRow[T any] struct {
	row   T
	index int
}

func (t *DataTable[T]) resort() {
	t.view = slices.Clone(t.rows)
	col, ok := t.column(t.sortKey)
	if !ok || col.Value == nil {
		return
	}
	paired := make([]indexedRow[T], len(t.rows))
	for i, r := range t.rows {
		paired[i] = indexedRow[T]{row: r, index: i}
	}
	slices.SortStableFunc(paired, func(a, b indexedRow[T]) int {
		c := CompareValues(col.Value(a.row), col.Value(b.row))
		if !t.ascending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})
	for i, p := range paired {
		t.view[i] = p.row
	}
}

// CompareValues is a plain ordering comparison: strings lexically, numbers
// numerically, false before true, decimals by value. Anything else falls
// back to comparing its printed form.
func CompareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case int:
		if bv, ok := b.(int); ok {
			return cmp.Compare(av, bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return cmp.Compare(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmp.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return cmp.Compare(boolRank(av), boolRank(bv))
		}
	case decimal.Decimal:
		if bv, ok := b.(decimal.Decimal); ok {
			return av.Cmp(bv)
		}
	case catalog.Price:
		if bv, ok := b.(catalog.Price); ok {
			return av.Cmp(bv.Decimal)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Selectable reports whether the selection column is shown.
func (t *DataTable[T]) Selectable() bool { return t.selectable }

func (t *DataTable[T]) IsSelected(id string) bool {
	_, ok := t.selected[id]
	return ok
}

// ToggleRow flips the selection of one id.
func (t *DataTable[T]) ToggleRow(id string) {
	if !t.selectable {
		return
	}
	if _, ok := t.selected[id]; ok {
		delete(t.selected, id)
		return
	}
	t.selected[id] = struct{}{}
}

// ToggleSelectAll selects every row the table holds, or clears the
// selection when all of them are already selected.
func (t *DataTable[T]) ToggleSelectAll() {
	if !t.selectable || len(t.rows) == 0 {
		return
	}
	if t.allSelected() {
		clear(t.selected)
		return
	}
	for _, r := range t.rows {
		t.selected[r.GetID()] = struct{}{}
	}
}

func (t *DataTable[T]) allSelected() bool {
	if len(t.rows) == 0 {
		return false
	}
	for _, r := range t.rows {
		if _, ok := t.selected[r.GetID()]; !ok {
			return false
		}
	}
	return true
}

// SelectedIDs returns the selection in display order.
func (t *DataTable[T]) SelectedIDs() []string {
	ids := make([]string, 0, len(t.selected))
	for _, r := range t.view {
		if _, ok := t.selected[r.GetID()]; ok {
			ids = append(ids, r.GetID())
		}
	}
	return ids
}

// Current returns the row under the cursor.
func (t *DataTable[T]) Current() (T, bool) {
	if t.cursor < 0 || t.cursor >= len(t.view) {
		var zero T
		return zero, false
	}
	return t.view[t.cursor], true
}

func (t *DataTable[T]) Cursor() int { return t.cursor }

func (t *DataTable[T]) MoveCursor(delta int) {
	t.cursor += delta
	t.clampCursor()
}

func (t *DataTable[T]) clampCursor() {
	if len(t.view) == 0 {
		t.cursor, t.offset = 0, 0
		return
	}
	t.cursor = max(0, min(t.cursor, len(t.view)-1))
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+t.height {
		t.offset = t.cursor - t.height + 1
	}
	t.offset = max(0, min(t.offset, len(t.view)-t.height))
}

// Window returns the index range of the rows that are rendered.
func (t *DataTable[T]) Window() (start, end int) {
	start = t.offset
	end = min(len(t.view), t.offset+t.height)
	return start, end
}

func (t *DataTable[T]) sortableKeys() []string {
	keys := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if c.Sortable {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// Update handles cursor movement, selection and sort keys.
func (t *DataTable[T]) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, t.keyMap.Up):
		t.MoveCursor(-1)
	case key.Matches(keyMsg, t.keyMap.Down):
		t.MoveCursor(1)
	case key.Matches(keyMsg, t.keyMap.PageUp):
		t.MoveCursor(-t.height)
	case key.Matches(keyMsg, t.keyMap.PageDown):
		t.MoveCursor(t.height)
	case key.Matches(keyMsg, t.keyMap.Top):
		t.MoveCursor(-len(t.view))
	case key.Matches(keyMsg, t.keyMap.Bottom):
		t.MoveCursor(len(t.view))
	case key.Matches(keyMsg, t.keyMap.ToggleRow):
		if row, ok := t.Current(); ok {
			t.ToggleRow(row.GetID())
		}
	case key.Matches(keyMsg, t.keyMap.ToggleAll):
		t.ToggleSelectAll()
	case key.Matches(keyMsg, t.keyMap.SortBy):
		n, err := strconv.Atoi(keyMsg.String())
		keys := t.sortableKeys()
		if err == nil && n >= 1 && n <= len(keys) {
			t.ToggleSort(keys[n-1])
		}
	}
	return nil
}

func (t *DataTable[T]) View() string {
	lines := make([]string, 0, t.height+1)
	lines = append(lines, t.renderHeader())
	start, end := t.Window()
	for i := start; i < end; i++ {
		line := t.renderRow(t.view[i])
		if i == t.cursor {
			line = styles.SelectedRowStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (t *DataTable[T]) renderHeader() string {
	cells := make([]string, 0, len(t.columns)+1)
	if t.selectable {
		cells = append(cells, checkbox(t.allSelected()))
	}
	for _, c := range t.columns {
		heading := c.Heading
		if c.Key == t.sortKey {
			if t.ascending {
				heading += " ▲"
			} else {
				heading += " ▼"
			}
		}
		cells = append(cells, fitCell(heading, c.Width, c.Align))
	}
	return styles.HeaderCellStyle.Render(strings.Join(cells, " "))
}

func (t *DataTable[T]) renderRow(row T) string {
	cells := make([]string, 0, len(t.columns)+1)
	if t.selectable {
		cells = append(cells, checkbox(t.IsSelected(row.GetID())))
	}
	for _, c := range t.columns {
		cells = append(cells, fitCell(c.cell(row), c.Width, c.Align))
	}
	return strings.Join(cells, " ")
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func fitCell(s string, width int, align Align) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(align.position()).
		Render(helpers.Truncate(s, width))
}
