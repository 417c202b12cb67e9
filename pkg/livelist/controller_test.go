package livelist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/catalogapi"
)

type listCall struct {
	Page int
	Sort catalog.Sort
}

type fakeSource struct {
	mu        sync.Mutex
	pages     map[int]*catalog.Page[catalog.Product]
	listErr   error
	saveErr   error
	deleteErr error
	lists     []listCall
	saved     []catalog.Product
	deleted   []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{pages: map[int]*catalog.Page[catalog.Product]{}}
}

func (f *fakeSource) List(_ context.Context, page int, sort catalog.Sort) (*catalog.Page[catalog.Product], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, listCall{Page: page, Sort: sort})
	if f.listErr != nil {
		return nil, f.listErr
	}
	if p, ok := f.pages[page]; ok {
		return p, nil
	}
	return catalog.EmptyPage[catalog.Product](), nil
}

func (f *fakeSource) Save(_ context.Context, p catalog.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, p)
	return f.saveErr
}

func (f *fakeSource) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func page(n, totalPages int, items ...catalog.Product) *catalog.Page[catalog.Product] {
	return &catalog.Page[catalog.Product]{
		Items:       items,
		TotalItems:  len(items),
		CurrentPage: n,
		TotalPages:  totalPages,
		Status:      200,
	}
}

func run(t *testing.T, c *Controller[catalog.Product], task Task) Task {
	t.Helper()
	require.NotNil(t, task)
	return c.Apply(task(t.Context()))
}

var (
	apple  = catalog.Product{ID: "1", Name: "Apple", Price: catalog.NewPrice(1), Type: catalog.TypeFruit, Active: true}
	banana = catalog.Product{ID: "2", Name: "Banana", Price: catalog.NewPrice(2), Type: catalog.TypeFruit}
	cheese = catalog.Product{ID: "11", Name: "Cheese", Price: catalog.NewPrice(9), Type: catalog.TypeDairy}
)

func TestController_Mount(t *testing.T) {
	t.Run("Should load page 1 with the default sort", func(t *testing.T) {
		src := newFakeSource()
		src.pages[1] = page(1, 1, apple)
		c := New[catalog.Product](src, catalog.Products)

		task := c.Mount()
		assert.Equal(t, StatusLoading, c.Status())
		run(t, c, task)

		assert.Equal(t, []listCall{{Page: 1, Sort: catalog.Products.DefaultSort}}, src.lists)
		assert.Equal(t, StatusLoaded, c.Status())
		require.Len(t, c.VisibleRows(), 1)
		assert.Equal(t, "Apple", c.VisibleRows()[0].Name)
	})
}

func TestController_Search(t *testing.T) {
	t.Run("Should filter the loaded page without issuing a request", func(t *testing.T) {
		src := newFakeSource()
		src.pages[1] = page(1, 1, apple)
		c := New[catalog.Product](src, catalog.Products)
		run(t, c, c.Mount())

		c.SetSearch("zz")
		assert.Empty(t, c.VisibleRows())
		assert.Len(t, src.lists, 1)
		assert.Equal(t, 1, c.TotalItems())

		c.SetSearch("APP")
		assert.Len(t, c.VisibleRows(), 1)
	})
}

func TestController_Supersede(t *testing.T) {
	t.Run("Should ignore the 499 sentinel and keep loading", func(t *testing.T) {
		src := newFakeSource()
		src.pages[1] = page(1, 2, apple)
		c := New[catalog.Product](src, catalog.Products)
		run(t, c, c.Mount())

		c.ChangePage(2)
		c.Apply(ListResult[catalog.Product]{Seq: c.listSeq, Page: catalog.CancelledPage[catalog.Product]()})

		assert.Equal(t, StatusLoading, c.Status())
		assert.NoError(t, c.Err())
		assert.Equal(t, []catalog.Product{apple}, c.Rows())
	})

	t.Run("Should only reflect page 2 when it supersedes a pending page 1", func(t *testing.T) {
		src := newFakeSource()
		src.pages[1] = page(1, 2, apple)
		src.pages[2] = page(2, 2, cheese)
		c := New[catalog.Product](src, catalog.Products)

		first := c.Mount()
		second := c.ChangePage(2)
		run(t, c, second)
		run(t, c, first)

		assert.Equal(t, StatusLoaded, c.Status())
		assert.Equal(t, 2, c.Page())
		assert.Equal(t, []catalog.Product{cheese}, c.Rows())
	})

	t.Run("Should ignore pages below 1", func(t *testing.T) {
		c := New[catalog.Product](newFakeSource(), catalog.Products)
		assert.Nil(t, c.ChangePage(0))
		assert.Nil(t, c.PrevPage())
	})
}

func TestController_ChangeSort(t *testing.T) {
	t.Run("Should toggle direction and reload from page 1", func(t *testing.T) {
		src := newFakeSource()
		c := New[catalog.Product](src, catalog.Products)
		run(t, c, c.Mount())
		run(t, c, c.ChangePage(3))

		run(t, c, c.ChangeSort(catalog.SortByName))
		run(t, c, c.ChangeSort(catalog.SortByPrice))

		require.Len(t, src.lists, 4)
		assert.Equal(t, listCall{Page: 1, Sort: catalog.Sort{Column: catalog.SortByName, Ascending: false}}, src.lists[2])
		assert.Equal(t, listCall{Page: 1, Sort: catalog.Sort{Column: catalog.SortByPrice, Ascending: true}}, src.lists[3])
	})
}

func TestController_ListFailure(t *testing.T) {
	t.Run("Should replace rows with the error", func(t *testing.T) {
		src := newFakeSource()
		src.pages[1] = page(1, 1, apple)
		c := New[catalog.Product](src, catalog.Products)
		run(t, c, c.Mount())

		src.listErr = errors.New("Error retrieving Products! Bad Gateway")
		run(t, c, c.Refresh())

		assert.Equal(t, StatusLoadError, c.Status())
		assert.EqualError(t, c.Err(), "Error retrieving Products! Bad Gateway")
		assert.Empty(t, c.VisibleRows())
	})

	t.Run("Should clear the error on the next success", func(t *testing.T) {
		src := newFakeSource()
		src.listErr = errors.New("offline")
		c := New[catalog.Product](src, catalog.Products)
		run(t, c, c.Mount())

		src.listErr = nil
		src.pages[1] = page(1, 1, apple)
		run(t, c, c.Refresh())
		assert.NoError(t, c.Err())
		assert.Len(t, c.VisibleRows(), 1)
	})
}

func TestController_Edit(t *testing.T) {
	t.Run("Should open a blank draft for add", func(t *testing.T) {
		c := New[catalog.Product](newFakeSource(), catalog.Products)
		c.BeginAdd()
		d, ok := c.Draft()
		require.True(t, ok)
		assert.Equal(t, OverlayEditingNew, c.Overlay())
		assert.Equal(t, catalog.Products.Blank(), d)
	})

	t.Run("Should edit a copy without touching the stored row", func(t *testing.T) {
		src := newFakeSource()
		src.pages[1] = page(1, 1, apple)
		c := New[catalog.Product](src, catalog.Products)
		run(t, c, c.Mount())

		require.NoError(t, c.BeginEdit("1"))
		require.NoError(t, c.UpdateDraft(func(p *catalog.Product) { p.Name = "Green Apple" }))

		d, _ := c.Draft()
		assert.Equal(t, "Green Apple", d.Name)
		assert.Equal(t, "Apple", c.Rows()[0].Name)

		c.CancelEdit()
		_, ok := c.Draft()
		assert.False(t, ok)
		assert.Equal(t, OverlayNone, c.Overlay())
	})

	t.Run("Should reject editing an unknown row", func(t *testing.T) {
		c := New[catalog.Product](newFakeSource(), catalog.Products)
		assert.ErrorIs(t, c.BeginEdit("missing"), ErrNotFound)
	})

	t.Run("Should block submit with every field message and no request", func(t *testing.T) {
		src := newFakeSource()
		c := New[catalog.Product](src, catalog.Products)
		c.BeginAdd()
		require.NoError(t, c.UpdateDraft(func(p *catalog.Product) { p.Type = "" }))

		task, err := c.Submit()
		assert.Nil(t, task)
		assert.ErrorIs(t, err, catalog.ErrValidation)
		assert.Len(t, c.FieldErrors(), 3)
		assert.Equal(t, catalog.SummaryWarning, c.Warning())
		assert.Empty(t, src.saved)
	})

	t.Run("Should validate a single field on blur", func(t *testing.T) {
		c := New[catalog.Product](newFakeSource(), catalog.Products)
		c.BeginAdd()
		assert.Equal(t, "Name must be entered", c.ValidateField("name"))
		require.NoError(t, c.UpdateDraft(func(p *catalog.Product) { p.Name = "Kiwi" }))
		assert.Empty(t, c.ValidateField("name"))
		assert.NotContains(t, c.FieldErrors(), "name")
	})

	t.Run("Should close the draft and reload the current page after saving", func(t *testing.T) {
		src := newFakeSource()
		src.pages[2] = page(2, 2, cheese)
		c := New[catalog.Product](src, catalog.Products)
		run(t, c, c.ChangePage(2))

		c.BeginAdd()
		require.NoError(t, c.UpdateDraft(func(p *catalog.Product) {
			p.Name = "Kiwi"
			p.Price = catalog.NewPrice(0.5)
		}))
		task, err := c.Submit()
		require.NoError(t, err)
		assert.True(t, c.Saving())

		reload := run(t, c, task)
		assert.Equal(t, OverlayNone, c.Overlay())
		run(t, c, reload)

		require.Len(t, src.saved, 1)
		assert.Equal(t, "Kiwi", src.saved[0].Name)
		assert.Equal(t, listCall{Page: 2, Sort: catalog.Products.DefaultSort}, src.lists[len(src.lists)-1])
	})

	t.Run("Should keep the draft open when saving fails", func(t *testing.T) {
		src := newFakeSource()
		src.saveErr = errors.New("Issue adding product: Kiwi")
		c := New[catalog.Product](src, catalog.Products)
		c.BeginAdd()
		require.NoError(t, c.UpdateDraft(func(p *catalog.Product) {
			p.Name = "Kiwi"
			p.Price = catalog.NewPrice(1)
		}))
		task, err := c.Submit()
		require.NoError(t, err)

		assert.Nil(t, run(t, c, task))
		d, ok := c.Draft()
		require.True(t, ok)
		assert.Equal(t, "Kiwi", d.Name)
		assert.EqualError(t, c.DraftErr(), "Issue adding product: Kiwi")
		assert.False(t, c.Saving())
	})
}

func TestController_Delete(t *testing.T) {
	t.Run("Should confirm, delete and reload the same page and sort", func(t *testing.T) {
		src := newFakeSource()
		src.pages[2] = page(2, 2, cheese)
		c := New[catalog.Product](src, catalog.Products)
		run(t, c, c.ChangeSort(catalog.SortByPrice))
		run(t, c, c.ChangePage(2))

		require.NoError(t, c.RequestDelete("11"))
		target, ok := c.DeleteTarget()
		require.True(t, ok)
		assert.Equal(t, DeleteTarget{ID: "11", Name: "Cheese"}, target)
		assert.Equal(t, OverlayConfirmingDelete, c.Overlay())

		task, err := c.ConfirmDelete()
		require.NoError(t, err)
		reload := run(t, c, task)
		assert.Equal(t, OverlayNone, c.Overlay())
		run(t, c, reload)

		assert.Equal(t, []string{"11"}, src.deleted)
		assert.Equal(t, listCall{Page: 2, Sort: catalog.Sort{Column: catalog.SortByPrice, Ascending: true}}, src.lists[len(src.lists)-1])
	})

	t.Run("Should make no call when the confirmation is cancelled", func(t *testing.T) {
		src := newFakeSource()
		src.pages[1] = page(1, 1, apple)
		c := New[catalog.Product](src, catalog.Products)
		run(t, c, c.Mount())

		require.NoError(t, c.RequestDelete("1"))
		c.CancelDelete()
		_, err := c.ConfirmDelete()
		assert.ErrorIs(t, err, ErrNoSelection)
		assert.Empty(t, src.deleted)
	})

	t.Run("Should close the dialog and surface the error on failure", func(t *testing.T) {
		src := newFakeSource()
		src.pages[1] = page(1, 1, apple, banana)
		src.deleteErr = errors.New("Issue deleting product with id: 2")
		c := New[catalog.Product](src, catalog.Products)
		run(t, c, c.Mount())

		require.NoError(t, c.RequestDelete("2"))
		task, err := c.ConfirmDelete()
		require.NoError(t, err)
		assert.Nil(t, run(t, c, task))

		assert.Equal(t, OverlayNone, c.Overlay())
		assert.Equal(t, StatusLoadError, c.Status())
		assert.EqualError(t, c.Err(), "Issue deleting product with id: 2")
		assert.Zero(t, c.TotalItems())
		assert.Zero(t, c.TotalPages())
	})

	t.Run("Should close the dialog quietly when a newer request aborts the delete", func(t *testing.T) {
		src := newFakeSource()
		src.pages[1] = page(1, 1, apple, banana)
		src.deleteErr = fmt.Errorf("delete product 2: %w", catalogapi.ErrCancelled)
		c := New[catalog.Product](src, catalog.Products)
		run(t, c, c.Mount())

		require.NoError(t, c.RequestDelete("2"))
		task, err := c.ConfirmDelete()
		require.NoError(t, err)
		assert.Nil(t, run(t, c, task))

		assert.Equal(t, OverlayNone, c.Overlay())
		assert.Equal(t, StatusLoaded, c.Status())
		assert.NoError(t, c.Err())
		assert.Equal(t, []catalog.Product{apple, banana}, c.Rows())
		assert.Equal(t, 2, c.TotalItems())
	})
}

func TestController_Isolation(t *testing.T) {
	t.Run("Should drop list results issued by another controller", func(t *testing.T) {
		oldSrc := newFakeSource()
		oldSrc.pages[1] = page(1, 1, cheese)
		stale := New[catalog.Product](oldSrc, catalog.Products).Mount()

		src := newFakeSource()
		src.pages[1] = page(1, 1, apple)
		c := New[catalog.Product](src, catalog.Products)
		pending := c.Mount()

		c.Apply(stale(t.Context()))
		assert.Equal(t, StatusLoading, c.Status())
		assert.Empty(t, c.Rows())

		run(t, c, pending)
		assert.Equal(t, []catalog.Product{apple}, c.Rows())
	})
}
