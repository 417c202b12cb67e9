package server

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/retailcat/catalogadmin/pkg/catalog"
)

// Collection is an in-memory table for one entity kind.
type Collection[T catalog.Entity] struct {
	mu      sync.RWMutex
	items   []T
	nextID  int
	withID  func(T, string) T
	sortKey func(T, catalog.SortColumn) any
}

func NewCollection[T catalog.Entity](
	withID func(T, string) T,
	sortKey func(T, catalog.SortColumn) any,
	seed ...T,
) *Collection[T] {
	c := &Collection[T]{withID: withID, sortKey: sortKey, nextID: 1}
	for _, item := range seed {
		c.Create(item)
	}
	return c
}

// Page returns one page ordered by the requested column. Pages start at 1.
func (c *Collection[T]) Page(page, limit int, sort catalog.Sort) catalog.Page[T] {
	c.mu.RLock()
	sorted := slices.Clone(c.items)
	c.mu.RUnlock()

	slices.SortStableFunc(sorted, func(a, b T) int {
		r := compareAny(c.sortKey(a, sort.Column), c.sortKey(b, sort.Column))
		if !sort.Ascending {
			r = -r
		}
		return r
	})
	if limit <= 0 {
		limit = catalog.DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(sorted)
	totalPages := (total + limit - 1) / limit
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	items := sorted[start:end]
	if items == nil {
		items = []T{}
	}
	return catalog.Page[T]{Items: items, TotalItems: total, CurrentPage: page, TotalPages: totalPages}
}

func (c *Collection[T]) Create(item T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	item = c.withID(item, strconv.Itoa(c.nextID))
	c.nextID++
	c.items = append(c.items, item)
	return item
}

func (c *Collection[T]) Update(id string, item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.items, func(x T) bool { return x.GetID() == id })
	if i < 0 {
		return false
	}
	c.items[i] = c.withID(item, id)
	return true
}

func (c *Collection[T]) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.items, func(x T) bool { return x.GetID() == id })
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	return true
}

func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, x := range c.items {
		if x.GetID() == id {
			return x, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// compareAny orders ids numerically when both parse as integers.
func compareAny(a, b any) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		ai, aerr := strconv.Atoi(av)
		bi, berr := strconv.Atoi(bv)
		if aerr == nil && berr == nil {
			return cmp.Compare(ai, bi)
		}
		return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
	case float64:
		bv, _ := b.(float64)
		return cmp.Compare(av, bv)
	case bool:
		bv, _ := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func productSortKey(p catalog.Product, col catalog.SortColumn) any {
	switch col {
	case catalog.SortByID:
		return p.ID
	case catalog.SortByPrice:
		return p.Price.Float64()
	case catalog.SortByType:
		return string(p.Type)
	case catalog.SortByActive:
		return p.Active
	default:
		return p.Name
	}
}

func brandSortKey(b catalog.Brand, col catalog.SortColumn) any {
	switch col {
	case catalog.SortByID:
		return b.ID
	case catalog.SortByActive:
		return b.Active
	default:
		return b.Name
	}
}

func NewProductCollection(seed ...catalog.Product) *Collection[catalog.Product] {
	return NewCollection(func(p catalog.Product, id string) catalog.Product {
		p.ID = id
		return p
	}, productSortKey, seed...)
}

func NewBrandCollection(seed ...catalog.Brand) *Collection[catalog.Brand] {
	return NewCollection(func(b catalog.Brand, id string) catalog.Brand {
		b.ID = id
		return b
	}, brandSortKey, seed...)
}

// SampleProducts is the demo data the dev backend starts with.
func SampleProducts() []catalog.Product {
	mk := func(name string, price float64, t catalog.ProductType, active bool) catalog.Product {
		return catalog.Product{Name: name, Price: catalog.NewPrice(price), Type: t, Active: active}
	}
	return []catalog.Product{
		mk("Apple", 0.99, catalog.TypeFruit, true),
		mk("Banana", 0.45, catalog.TypeFruit, true),
		mk("Carrot", 0.30, catalog.TypeVegetable, true),
		mk("Cheddar", 6.50, catalog.TypeDairy, true),
		mk("Broccoli", 2.10, catalog.TypeVegetable, false),
		mk("Milk", 1.80, catalog.TypeDairy, true),
		mk("Mango", 1.95, catalog.TypeFruit, true),
		mk("Spinach", 3.25, catalog.TypeVegetable, true),
		mk("Yoghurt", 4.10, catalog.TypeDairy, false),
		mk("Pear", 0.85, catalog.TypeFruit, true),
		mk("Potato", 0.40, catalog.TypeVegetable, true),
		mk("Butter", 5.20, catalog.TypeDairy, true),
	}
}

func SampleBrands() []catalog.Brand {
	return []catalog.Brand{
		{Name: "Orchard Fresh", Active: true},
		{Name: "Green Valley", Active: true},
		{Name: "Dairy Hills", Active: false},
	}
}

// Replace swaps the contents for items, assigning fresh ids from 1.
func (c *Collection[T]) Replace(items ...T) {
	c.mu.Lock()
	c.items = nil
	c.nextID = 1
	c.mu.Unlock()
	for _, item := range items {
		c.Create(item)
	}
}
