package livelist

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/catalogapi"
)

// Source is the backend a controller drives; catalogapi.Client satisfies it.
type Source[T catalog.Entity] interface {
	List(ctx context.Context, page int, sort catalog.Sort) (*catalog.Page[T], error)
	Save(ctx context.Context, entity T) error
	Delete(ctx context.Context, id string) error
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusLoadError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusLoadError:
		return "error"
	default:
		return "idle"
	}
}

// Overlay is a sub-state layered over the list without discarding its rows.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayEditingNew
	OverlayEditingExisting
	OverlayConfirmingDelete
)

var (
	ErrNotFound    = errors.New("row not found on the current page")
	ErrNoDraft     = errors.New("no draft is open")
	ErrBusy        = errors.New("a request for this form is already in flight")
	ErrNoSelection = errors.New("no delete is pending")
)

// listSeqs numbers list requests across every controller in the process, so
// a result from a discarded controller never matches a live one.
var listSeqs atomic.Uint64

// DeleteTarget is what the confirmation step shows before the destructive call.
type DeleteTarget struct {
	ID   string
	Name string
}

// Controller is the state machine behind one entity list. It never performs
// I/O itself: operations return Tasks and results come back through Apply.
// It is not safe for concurrent use; the host event loop owns it.
type Controller[T catalog.Entity] struct {
	source Source[T]
	desc   catalog.Descriptor[T]

	status     Status
	page       int
	sort       catalog.Sort
	rows       []T
	totalItems int
	totalPages int
	err        error
	search     string
	listSeq    uint64

	overlay     Overlay
	draft       T
	fieldErrors map[string]string
	warning     string
	draftErr    error
	saving      bool

	deleteTarget *DeleteTarget
	deleting     bool
}

func New[T catalog.Entity](source Source[T], desc catalog.Descriptor[T]) *Controller[T] {
	return &Controller[T]{
		source: source,
		desc:   desc,
		page:   1,
		sort:   desc.DefaultSort,
	}
}

func (c *Controller[T]) Descriptor() catalog.Descriptor[T] { return c.desc }
func (c *Controller[T]) Status() Status                    { return c.status }
func (c *Controller[T]) Overlay() Overlay                  { return c.overlay }
func (c *Controller[T]) Page() int                         { return c.page }
func (c *Controller[T]) Sort() catalog.Sort                { return c.sort }
func (c *Controller[T]) TotalPages() int                   { return c.totalPages }
func (c *Controller[T]) TotalItems() int                   { return c.totalItems }
func (c *Controller[T]) Err() error                        { return c.err }
func (c *Controller[T]) Search() string                    { return c.search }
func (c *Controller[T]) Loading() bool                     { return c.status == StatusLoading }

// Rows returns the whole loaded page, ignoring the search term.
func (c *Controller[T]) Rows() []T {
	return c.rows
}

// Mount issues the first list request with the default sort.
func (c *Controller[T]) Mount() Task {
	c.page = 1
	c.sort = c.desc.DefaultSort
	return c.list()
}

// ChangePage requests page n. Pages below 1 are ignored.
func (c *Controller[T]) ChangePage(n int) Task {
	if n < 1 {
		return nil
	}
	c.page = n
	return c.list()
}

func (c *Controller[T]) NextPage() Task {
	if c.totalPages > 0 && c.page >= c.totalPages {
		return nil
	}
	return c.ChangePage(c.page + 1)
}

func (c *Controller[T]) PrevPage() Task {
	return c.ChangePage(c.page - 1)
}

// ChangeSort toggles direction on the current column or selects a new one
// ascending, then reloads from page 1.
func (c *Controller[T]) ChangeSort(col catalog.SortColumn) Task {
	c.sort = c.sort.Toggle(col)
	c.page = 1
	return c.list()
}

// Refresh re-issues the list for the current page and sort.
func (c *Controller[T]) Refresh() Task {
	return c.list()
}

func (c *Controller[T]) list() Task {
	c.listSeq = listSeqs.Add(1)
	seq, page, sort := c.listSeq, c.page, c.sort
	c.status = StatusLoading
	source := c.source
	return func(ctx context.Context) Msg {
		p, err := source.List(ctx, page, sort)
		return ListResult[T]{Seq: seq, Page: p, Err: err}
	}
}

// SetSearch narrows the visible rows of the loaded page. It never issues a request.
func (c *Controller[T]) SetSearch(term string) {
	c.search = term
}

// VisibleRows is the loaded page filtered by the search term.
func (c *Controller[T]) VisibleRows() []T {
	if c.status == StatusLoadError {
		return nil
	}
	return catalog.FilterByName(c.rows, c.search)
}

func (c *Controller[T]) find(id string) (T, bool) {
	for _, r := range c.rows {
		if r.GetID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// BeginAdd opens a draft from the blank template.
func (c *Controller[T]) BeginAdd() {
	c.openDraft(c.desc.Blank(), OverlayEditingNew)
}

// BeginEdit opens a draft holding a copy of the row with the given id.
func (c *Controller[T]) BeginEdit(id string) error {
	row, ok := c.find(id)
	if !ok {
		return fmt.Errorf("edit %s %q: %w", c.desc.Name, id, ErrNotFound)
	}
	c.openDraft(row, OverlayEditingExisting)
	return nil
}

func (c *Controller[T]) openDraft(d T, o Overlay) {
	c.draft = d
	c.overlay = o
	c.fieldErrors = map[string]string{}
	c.warning = ""
	c.draftErr = nil
	c.saving = false
	c.deleteTarget = nil
}

func (c *Controller[T]) editing() bool {
	return c.overlay == OverlayEditingNew || c.overlay == OverlayEditingExisting
}

// Draft returns a copy of the open draft.
func (c *Controller[T]) Draft() (T, bool) {
	return c.draft, c.editing()
}

// UpdateDraft applies fn to the draft. The stored rows are never touched.
func (c *Controller[T]) UpdateDraft(fn func(*T)) error {
	if !c.editing() {
		return ErrNoDraft
	}
	fn(&c.draft)
	return nil
}

// ValidateField checks a single field, as when it loses focus, and records
// or clears its message.
func (c *Controller[T]) ValidateField(field string) string {
	if !c.editing() {
		return ""
	}
	msg := catalog.FieldError(c.desc, c.draft, field)
	if msg == "" {
		delete(c.fieldErrors, field)
	} else {
		c.fieldErrors[field] = msg
	}
	return msg
}

func (c *Controller[T]) FieldErrors() map[string]string { return c.fieldErrors }
func (c *Controller[T]) Warning() string                { return c.warning }
func (c *Controller[T]) DraftErr() error                { return c.draftErr }
func (c *Controller[T]) Saving() bool                   { return c.saving }

// CancelEdit discards the draft.
func (c *Controller[T]) CancelEdit() {
	if !c.editing() {
		return
	}
	var zero T
	c.draft = zero
	c.overlay = OverlayNone
	c.fieldErrors = nil
	c.warning = ""
	c.draftErr = nil
	c.saving = false
}

// Submit validates the whole draft. On failure no request is made and every
// field message is recorded along with the summary warning.
func (c *Controller[T]) Submit() (Task, error) {
	if !c.editing() {
		return nil, ErrNoDraft
	}
	if c.saving {
		return nil, ErrBusy
	}
	if err := c.desc.Validate(c.draft); err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			c.fieldErrors = verr.Fields
		}
		c.warning = catalog.SummaryWarning
		return nil, err
	}
	c.fieldErrors = map[string]string{}
	c.warning = ""
	c.draftErr = nil
	c.saving = true
	entity, source := c.draft, c.source
	return func(ctx context.Context) Msg {
		return SaveResult[T]{Entity: entity, Err: source.Save(ctx, entity)}
	}, nil
}

// RequestDelete opens the confirmation for a row on the current page.
func (c *Controller[T]) RequestDelete(id string) error {
	row, ok := c.find(id)
	if !ok {
		return fmt.Errorf("delete %s %q: %w", c.desc.Name, id, ErrNotFound)
	}
	c.deleteTarget = &DeleteTarget{ID: row.GetID(), Name: row.DisplayName()}
	c.overlay = OverlayConfirmingDelete
	c.deleting = false
	return nil
}

func (c *Controller[T]) DeleteTarget() (DeleteTarget, bool) {
	if c.deleteTarget == nil {
		return DeleteTarget{}, false
	}
	return *c.deleteTarget, true
}

func (c *Controller[T]) Deleting() bool { return c.deleting }

func (c *Controller[T]) CancelDelete() {
	if c.overlay != OverlayConfirmingDelete {
		return
	}
	c.deleteTarget = nil
	c.overlay = OverlayNone
	c.deleting = false
}

// ConfirmDelete issues the delete for the pending target.
func (c *Controller[T]) ConfirmDelete() (Task, error) {
	if c.overlay != OverlayConfirmingDelete || c.deleteTarget == nil {
		return nil, ErrNoSelection
	}
	if c.deleting {
		return nil, ErrBusy
	}
	c.deleting = true
	id, source := c.deleteTarget.ID, c.source
	return func(ctx context.Context) Msg {
		return DeleteResult{ID: id, Err: source.Delete(ctx, id)}
	}, nil
}

// Apply folds a task result into the state and may return a follow-up task.
func (c *Controller[T]) Apply(msg Msg) Task {
	switch m := msg.(type) {
	case ListResult[T]:
		c.applyList(m)
		return nil
	case SaveResult[T]:
		return c.applySave(m)
	case DeleteResult:
		return c.applyDelete(m)
	default:
		return nil
	}
}

func (c *Controller[T]) applyList(m ListResult[T]) {
	if m.Err == nil && m.Page.Superseded() {
		return
	}
	if m.Seq != c.listSeq {
		return
	}
	if m.Err == nil && m.Page == nil {
		m.Page = catalog.EmptyPage[T]()
	}
	if m.Err != nil {
		c.status = StatusLoadError
		c.err = m.Err
		c.rows = nil
		c.totalItems = 0
		c.totalPages = 0
		return
	}
	c.status = StatusLoaded
	c.err = nil
	c.rows = m.Page.Items
	c.totalItems = m.Page.TotalItems
	c.totalPages = m.Page.TotalPages
	if m.Page.CurrentPage > 0 {
		c.page = m.Page.CurrentPage
	}
}

func (c *Controller[T]) applySave(m SaveResult[T]) Task {
	c.saving = false
	if m.Err != nil {
		if c.editing() {
			c.draftErr = m.Err
		}
		return nil
	}
	c.CancelEdit()
	return c.list()
}

func (c *Controller[T]) applyDelete(m DeleteResult) Task {
	c.deleting = false
	c.deleteTarget = nil
	if c.overlay == OverlayConfirmingDelete {
		c.overlay = OverlayNone
	}
	if aborted(m.Err) {
		// the request that took the slot reports for itself
		return nil
	}
	if m.Err != nil {
		c.status = StatusLoadError
		c.err = m.Err
		c.rows = nil
		c.totalItems = 0
		c.totalPages = 0
		return nil
	}
	return c.list()
}

func aborted(err error) bool {
	return errors.Is(err, catalogapi.ErrCancelled) || errors.Is(err, context.Canceled)
}
