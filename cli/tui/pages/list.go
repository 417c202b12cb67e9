package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/retailcat/catalogadmin/cli/helpers"
	"github.com/retailcat/catalogadmin/cli/tui/components"
	"github.com/retailcat/catalogadmin/cli/tui/styles"
	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/livelist"
	"github.com/retailcat/catalogadmin/pkg/logger"
)

// Versioner reports the backend version of one entity API.
type Versioner interface {
	Version(ctx context.Context) (string, error)
}

type ListKeyMap struct {
	Search     key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	SortColumn key.Binding
	SortDir    key.Binding
	Refresh    key.Binding
	Add        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	CopyIDs    key.Binding
}

var pageSeq atomic.Uint64

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// ListShortcuts is the help overlay group for the list pages.
func ListShortcuts() components.ShortcutCategory {
	km := DefaultListKeyMap()
	return components.NewShortcutCategory("Lists", km.Search, km.NextPage, km.PrevPage,
		km.SortColumn, km.SortDir, km.Refresh, km.Add, km.Edit, km.Delete, km.CopyIDs)
}

func DefaultListKeyMap() ListKeyMap {
	return ListKeyMap{
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextPage:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next page")),
		PrevPage:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "prev page")),
		SortColumn: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "order by")),
		SortDir:    key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "flip order")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		CopyIDs:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy ids")),
	}
}

// ListPage hosts one list controller and renders its state. Controller
// tasks run as tea commands and come back as TaskDoneMsg.
type ListPage[T catalog.Entity] struct {
	ctx       context.Context
	owner     string
	ctrl      *livelist.Controller[T]
	desc      catalog.Descriptor[T]
	fields    []components.FieldSpec[T]
	table     *components.DataTable[T]
	form      *components.EntityForm[T]
	dialog    *components.ConfirmDialog
	search    textinput.Model
	searching bool
	pager     paginator.Model
	status    components.StatusMessage
	versioner Versioner
	version   string
	notice    string
	keyMap    ListKeyMap
	width     int
	height    int
}

// NewListPage builds a page around ctrl. A nil versioner hides the API
// version line, as in production.
func NewListPage[T catalog.Entity](
	ctx context.Context,
	ctrl *livelist.Controller[T],
	columns []components.Column[T],
	fields []components.FieldSpec[T],
	versioner Versioner,
) *ListPage[T] {
	search := textinput.New()
	search.Placeholder = "Search by name"
	search.Prompt = "/ "
	pager := paginator.New()
	pager.Type = paginator.Arabic
	pager.ArabicFormat = "Page %d of %d"
	pager.PerPage = 1
	desc := ctrl.Descriptor()
	return &ListPage[T]{
		ctx:       ctx,
		owner:     fmt.Sprintf("%s#%d", desc.Name, pageSeq.Add(1)),
		ctrl:      ctrl,
		desc:      desc,
		fields:    fields,
		table:     components.NewDataTable(columns, true),
		search:    search,
		pager:     pager,
		status:    components.NewStatusMessage(),
		versioner: versioner,
		keyMap:    DefaultListKeyMap(),
	}
}

// Owner tags the messages this page's commands produce. It is unique per
// page instance, so results from a page discarded on reload are ignored.
func (p *ListPage[T]) Owner() string { return p.owner }

func (p *ListPage[T]) Controller() *livelist.Controller[T] { return p.ctrl }
func (p *ListPage[T]) Table() *components.DataTable[T]     { return p.table }

func (p *ListPage[T]) run(task livelist.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	ctx, owner := p.ctx, p.owner
	return tea.Batch(p.status.Tick(), func() tea.Msg {
		return TaskDoneMsg{Owner: owner, Msg: task(ctx)}
	})
}

func (p *ListPage[T]) fetchVersion() tea.Cmd {
	if p.versioner == nil {
		return nil
	}
	ctx, owner, v := p.ctx, p.owner, p.versioner
	return func() tea.Msg {
		version, err := v.Version(ctx)
		return VersionMsg{Owner: owner, Version: version, Err: err}
	}
}

func (p *ListPage[T]) Init() tea.Cmd {
	return tea.Batch(p.run(p.ctrl.Mount()), p.fetchVersion())
}

func (p *ListPage[T]) SetSize(width, height int) {
	p.width, p.height = width, height
	// title, search, status line, pager and help
	p.table.SetSize(width, height-6)
	if p.form != nil {
		p.form.SetWidth(width)
	}
}

func (p *ListPage[T]) Capturing() bool {
	return p.searching || p.form != nil || p.dialog != nil
}

func (p *ListPage[T]) Status() string {
	return fmt.Sprintf("%s • %d %s", p.desc.Title, p.ctrl.TotalItems(), p.desc.Plural)
}

func (p *ListPage[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TaskDoneMsg:
		if msg.Owner != p.owner {
			return nil
		}
		follow := p.ctrl.Apply(msg.Msg)
		p.logResult(msg.Msg)
		p.sync()
		return p.run(follow)
	case VersionMsg:
		if msg.Owner != p.owner {
			return nil
		}
		if msg.Err != nil {
			logger.FromContext(p.ctx).Debug("Version lookup failed", "entity", p.desc.Name, "error", msg.Err)
			return nil
		}
		p.version = msg.Version
		return nil
	case CopiedMsg:
		if msg.Owner != p.owner {
			return nil
		}
		if msg.Err != nil {
			p.notice = msg.Err.Error()
			return nil
		}
		p.notice = fmt.Sprintf("Copied %d %s", msg.Count, helpers.Pluralize(msg.Count, "id", "ids"))
		return nil
	case components.FormSubmitMsg:
		return p.submit()
	case components.FormCancelMsg:
		p.ctrl.CancelEdit()
		p.sync()
		return nil
	case components.ConfirmMsg:
		task, err := p.ctrl.ConfirmDelete()
		if err != nil {
			p.notice = err.Error()
			return nil
		}
		p.sync()
		return p.run(task)
	case components.DismissMsg:
		p.ctrl.CancelDelete()
		p.sync()
		return nil
	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	var cmd tea.Cmd
	p.status, cmd = p.status.Update(msg)
	return cmd
}

func (p *ListPage[T]) logResult(msg livelist.Msg) {
	log := logger.FromContext(p.ctx)
	switch m := msg.(type) {
	case livelist.ListResult[T]:
		if m.Err != nil {
			log.Warn("List failed", "entity", p.desc.Name, "error", m.Err)
		}
	case livelist.SaveResult[T]:
		if m.Err != nil {
			log.Warn("Save failed", "entity", p.desc.Name, "error", m.Err)
		} else {
			log.Info("Saved", "entity", p.desc.Name, "name", m.Entity.DisplayName())
		}
	case livelist.DeleteResult:
		if m.Err != nil {
			log.Warn("Delete failed", "entity", p.desc.Name, "id", m.ID, "error", m.Err)
		} else {
			log.Info("Deleted", "entity", p.desc.Name, "id", m.ID)
		}
	}
}

func (p *ListPage[T]) submit() tea.Cmd {
	task, err := p.ctrl.Submit()
	if err != nil {
		// validation messages live on the controller and render in the form
		if !errors.Is(err, catalog.ErrValidation) {
			p.notice = err.Error()
		}
		return nil
	}
	return p.run(task)
}

func (p *ListPage[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case p.form != nil:
		return p.form.Update(msg)
	case p.dialog != nil:
		return p.dialog.Update(msg)
	case p.searching:
		return p.handleSearchKey(msg)
	}
	p.notice = ""
	km := p.keyMap
	switch {
	case key.Matches(msg, km.Search):
		p.searching = true
		return p.search.Focus()
	case key.Matches(msg, km.NextPage):
		return p.run(p.ctrl.NextPage())
	case key.Matches(msg, km.PrevPage):
		return p.run(p.ctrl.PrevPage())
	case key.Matches(msg, km.SortColumn):
		next := p.desc.NextSortColumn(p.ctrl.Sort().Column)
		return p.run(p.ctrl.ChangeSort(next))
	case key.Matches(msg, km.SortDir):
		return p.run(p.ctrl.ChangeSort(p.ctrl.Sort().Column))
	case key.Matches(msg, km.Refresh):
		return p.run(p.ctrl.Refresh())
	case key.Matches(msg, km.Add):
		p.ctrl.BeginAdd()
		p.sync()
		return nil
	case key.Matches(msg, km.Edit):
		return p.withCurrent(p.ctrl.BeginEdit)
	case key.Matches(msg, km.Delete):
		return p.withCurrent(p.ctrl.RequestDelete)
	case key.Matches(msg, km.CopyIDs):
		return p.copyIDs()
	}
	return p.table.Update(msg)
}

func (p *ListPage[T]) withCurrent(fn func(id string) error) tea.Cmd {
	row, ok := p.table.Current()
	if !ok {
		return nil
	}
	if err := fn(row.GetID()); err != nil {
		p.notice = err.Error()
	}
	p.sync()
	return nil
}

// copyIDs copies the selected ids, or the id under the cursor when nothing
// is selected.
func (p *ListPage[T]) copyIDs() tea.Cmd {
	ids := p.table.SelectedIDs()
	if len(ids) == 0 {
		row, ok := p.table.Current()
		if !ok {
			return nil
		}
		ids = []string{row.GetID()}
	}
	owner := p.owner
	return func() tea.Msg {
		if err := writeClipboard(strings.Join(ids, "\n")); err != nil {
			return CopiedMsg{Owner: owner, Err: fmt.Errorf("failed to copy to clipboard: %w", err)}
		}
		return CopiedMsg{Owner: owner, Count: len(ids)}
	}
}

func (p *ListPage[T]) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		p.searching = false
		p.search.Blur()
		return nil
	case "esc":
		p.searching = false
		p.search.Blur()
		p.search.SetValue("")
		p.ctrl.SetSearch("")
		p.sync()
		return nil
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	p.ctrl.SetSearch(p.search.Value())
	p.sync()
	return cmd
}

// sync mirrors controller state into the widgets.
func (p *ListPage[T]) sync() {
	p.table.SetRows(p.ctrl.VisibleRows())
	p.pager.SetTotalPages(max(1, p.ctrl.TotalPages()))
	p.pager.Page = max(0, p.ctrl.Page()-1)

	switch p.ctrl.Overlay() {
	case livelist.OverlayEditingNew, livelist.OverlayEditingExisting:
		if p.form == nil {
			p.form = components.NewEntityForm(p.formTitle(), p.fields, p.ctrl)
			p.form.SetWidth(p.width)
		}
		p.dialog = nil
	case livelist.OverlayConfirmingDelete:
		p.form = nil
		if target, ok := p.ctrl.DeleteTarget(); ok {
			if p.dialog == nil {
				d := components.NewDeleteDialog(singular(p.desc.Name), target.ID, target.Name)
				p.dialog = &d
			}
			p.dialog.Busy = p.ctrl.Deleting()
		}
	default:
		p.form = nil
		p.dialog = nil
	}
}

func (p *ListPage[T]) formTitle() string {
	draft, _ := p.ctrl.Draft()
	if catalog.IsNew(draft) {
		return "Add " + singular(p.desc.Name)
	}
	return fmt.Sprintf("Edit %s (%s)", singular(p.desc.Name), draft.GetID())
}

func (p *ListPage[T]) View() string {
	if p.form != nil {
		return p.form.View()
	}
	if p.dialog != nil {
		return p.dialog.View()
	}
	sections := []string{p.header()}
	if p.searching || p.search.Value() != "" {
		sections = append(sections, p.search.View())
	}
	if p.notice != "" {
		sections = append(sections, styles.WarningStyle.Render(p.notice))
	}
	rows := p.ctrl.VisibleRows()
	if s := p.status.View(p.ctrl.Loading(), p.ctrl.Err(), len(rows) == 0); s != "" {
		sections = append(sections, s)
	}
	// rows stay visible under the spinner while a reload runs
	if p.ctrl.Err() == nil && len(rows) > 0 {
		sections = append(sections, p.table.View())
	}
	sections = append(sections, p.footer())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (p *ListPage[T]) header() string {
	sort := p.ctrl.Sort()
	dir := "asc"
	if !sort.Ascending {
		dir = "desc"
	}
	line := styles.RenderTitle(p.desc.Title) + " " +
		styles.InfoStyle.Render(fmt.Sprintf("order by %s %s", sort.Column, dir))
	if p.version != "" {
		line += " " + styles.HelpStyle.Render("API "+p.version)
	}
	return line
}

func (p *ListPage[T]) footer() string {
	pager := styles.PaginationStyle.Render(p.pager.View())
	help := styles.HelpStyle.Render("a add • e edit • d delete • y copy • / search • n/p page • o order • ? help")
	return pager + "\n" + help
}

var titleCaser = cases.Title(language.English)

func singular(name string) string {
	return titleCaser.String(name)
}
