package pages

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcat/catalogadmin/cli/tui/components"
	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/livelist"
)

type stubSource struct {
	mu    sync.Mutex
	page  *catalog.Page[catalog.Product]
	lists int
}

func (s *stubSource) List(context.Context, int, catalog.Sort) (*catalog.Page[catalog.Product], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	return s.page, nil
}

func (s *stubSource) Save(context.Context, catalog.Product) error { return nil }
func (s *stubSource) Delete(context.Context, string) error         { return nil }

func (s *stubSource) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

func onePage() *catalog.Page[catalog.Product] {
	return &catalog.Page[catalog.Product]{
		Items: []catalog.Product{
			{ID: "1", Name: "Apple", Price: catalog.NewPrice(1.25), Type: catalog.TypeFruit, Active: true},
		},
		TotalItems:  1,
		CurrentPage: 1,
		TotalPages:  1,
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mountedPage(t *testing.T) (*ListPage[catalog.Product], *stubSource) {
	t.Helper()
	ctx := context.Background()
	src := &stubSource{page: onePage()}
	ctrl := livelist.New[catalog.Product](src, catalog.Products)
	page := NewListPage(ctx, ctrl, ProductColumns(), ProductFields(), nil)
	page.SetSize(100, 30)
	page.Update(TaskDoneMsg{Owner: page.Owner(), Msg: ctrl.Mount()(ctx)})
	return page, src
}

func TestListPage(t *testing.T) {
	t.Run("Should show the loaded rows", func(t *testing.T) {
		page, _ := mountedPage(t)
		require.Len(t, page.Table().Rows(), 1)
		assert.Equal(t, "Apple", page.Table().Rows()[0].Name)
		assert.Contains(t, page.View(), "Apple")
		assert.Contains(t, page.View(), "$1.25")
	})

	t.Run("Should filter locally without a new request", func(t *testing.T) {
		page, src := mountedPage(t)
		page.Update(keyRunes("/"))
		assert.True(t, page.Capturing())
		page.Update(keyRunes("z"))
		page.Update(keyRunes("z"))
		assert.Empty(t, page.Table().Rows())
		assert.Contains(t, page.View(), components.NoResultsText)
		assert.Equal(t, 1, src.listCalls())
	})

	t.Run("Should restore rows when the search is cleared", func(t *testing.T) {
		page, _ := mountedPage(t)
		page.Update(keyRunes("/"))
		page.Update(keyRunes("q"))
		page.Update(tea.KeyMsg{Type: tea.KeyEsc})
		assert.False(t, page.Capturing())
		assert.Len(t, page.Table().Rows(), 1)
	})

	t.Run("Should ignore results addressed to another page", func(t *testing.T) {
		page, _ := mountedPage(t)
		cmd := page.Update(TaskDoneMsg{Owner: "brand", Msg: livelist.DeleteResult{ID: "1"}})
		assert.Nil(t, cmd)
		assert.Len(t, page.Table().Rows(), 1)
	})

	t.Run("Should ignore results from a replaced page of the same entity", func(t *testing.T) {
		old, _ := mountedPage(t)
		page, _ := mountedPage(t)
		require.NotEqual(t, old.Owner(), page.Owner())

		empty := &catalog.Page[catalog.Product]{CurrentPage: 1}
		cmd := page.Update(TaskDoneMsg{Owner: old.Owner(), Msg: livelist.ListResult[catalog.Product]{Seq: 1, Page: empty}})
		assert.Nil(t, cmd)
		require.Len(t, page.Table().Rows(), 1)
		assert.Equal(t, "Apple", page.Table().Rows()[0].Name)
	})

	t.Run("Should block submit of an invalid draft", func(t *testing.T) {
		page, _ := mountedPage(t)
		page.Update(keyRunes("a"))
		require.True(t, page.Capturing())
		assert.Contains(t, page.View(), "Add Product")
		cmd := page.Update(components.FormSubmitMsg{})
		assert.Nil(t, cmd)
		view := page.View()
		assert.Contains(t, view, catalog.SummaryWarning)
		assert.Contains(t, view, "Name must be entered")
		assert.Contains(t, view, "A price must be greater than 0")
	})

	t.Run("Should open the edit form for the current row", func(t *testing.T) {
		page, _ := mountedPage(t)
		page.Update(keyRunes("e"))
		assert.Contains(t, page.View(), "Edit Product (1)")
		page.Update(components.FormCancelMsg{})
		assert.False(t, page.Capturing())
	})

	t.Run("Should confirm a delete and reload afterwards", func(t *testing.T) {
		page, _ := mountedPage(t)
		page.Update(keyRunes("d"))
		assert.Contains(t, page.View(), "Delete Product (Apple)")
		cmd := page.Update(components.ConfirmMsg{})
		require.NotNil(t, cmd)
		assert.True(t, page.Controller().Deleting())

		follow := page.Update(TaskDoneMsg{Owner: page.Owner(), Msg: livelist.DeleteResult{ID: "1"}})
		assert.NotNil(t, follow)
		assert.False(t, page.Capturing())
		assert.Equal(t, livelist.StatusLoading, page.Controller().Status())
	})

	t.Run("Should keep loaded rows visible during a refresh", func(t *testing.T) {
		page, _ := mountedPage(t)
		cmd := page.Update(keyRunes("r"))
		require.NotNil(t, cmd)
		require.Equal(t, livelist.StatusLoading, page.Controller().Status())
		view := page.View()
		assert.Contains(t, view, "Loading")
		assert.Contains(t, view, "Apple")
	})

	t.Run("Should show only the spinner before the first page arrives", func(t *testing.T) {
		src := &stubSource{page: onePage()}
		ctrl := livelist.New[catalog.Product](src, catalog.Products)
		page := NewListPage(context.Background(), ctrl, ProductColumns(), ProductFields(), nil)
		page.SetSize(100, 30)
		require.NotNil(t, page.Init())
		view := page.View()
		assert.Contains(t, view, "Loading")
		assert.NotContains(t, view, components.NoResultsText)
	})

	t.Run("Should dismiss the delete dialog", func(t *testing.T) {
		page, _ := mountedPage(t)
		page.Update(keyRunes("d"))
		page.Update(components.DismissMsg{})
		assert.Equal(t, livelist.OverlayNone, page.Controller().Overlay())
		assert.Contains(t, page.View(), "Apple")
	})

	t.Run("Should show the API version when provided", func(t *testing.T) {
		page, _ := mountedPage(t)
		page.Update(VersionMsg{Owner: page.Owner(), Version: "1.4.0"})
		assert.Contains(t, page.View(), "API 1.4.0")
	})

	t.Run("Should cycle the server sort column", func(t *testing.T) {
		page, _ := mountedPage(t)
		cmd := page.Update(keyRunes("o"))
		require.NotNil(t, cmd)
		assert.Equal(t, catalog.SortByPrice, page.Controller().Sort().Column)
		assert.True(t, page.Controller().Sort().Ascending)
	})
}

func TestListPageCopyIDs(t *testing.T) {
	t.Run("Should copy the id under the cursor", func(t *testing.T) {
		var copied string
		orig := writeClipboard
		writeClipboard = func(s string) error { copied = s; return nil }
		t.Cleanup(func() { writeClipboard = orig })

		page, _ := mountedPage(t)
		cmd := page.Update(keyRunes("y"))
		require.NotNil(t, cmd)
		msg := cmd()
		assert.Equal(t, CopiedMsg{Owner: page.Owner(), Count: 1}, msg)
		assert.Equal(t, "1", copied)
		page.Update(msg)
		assert.Contains(t, page.View(), "Copied 1 id")
	})

	t.Run("Should surface clipboard failures", func(t *testing.T) {
		orig := writeClipboard
		writeClipboard = func(string) error { return assert.AnError }
		t.Cleanup(func() { writeClipboard = orig })

		page, _ := mountedPage(t)
		msg := page.Update(keyRunes("y"))()
		copiedMsg, ok := msg.(CopiedMsg)
		require.True(t, ok)
		require.ErrorIs(t, copiedMsg.Err, assert.AnError)
		page.Update(msg)
		assert.Contains(t, page.View(), "failed to copy to clipboard")
	})
}

func TestAboutPage(t *testing.T) {
	t.Run("Should describe the application", func(t *testing.T) {
		view := NewAboutPage("v1.0.0").View()
		assert.Contains(t, view, AppName)
		assert.Contains(t, view, AppDescription)
	})
}
