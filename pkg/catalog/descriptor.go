package catalog

import (
	"fmt"
	"slices"
)

// Descriptor carries everything the generic client, controller and views need
// to know about one entity kind.
type Descriptor[T Entity] struct {
	Name        string
	Plural      string
	Title       string
	Resource    string
	SortColumns []SortColumn
	DefaultSort Sort
	Blank       func() T
	Validate    func(T) error
}

func (d Descriptor[T]) Path() string {
	return "api/" + d.Resource
}

func (d Descriptor[T]) ItemPath(id string) string {
	return d.Path() + "/" + id
}

func (d Descriptor[T]) VersionPath() string {
	return d.Path() + "/version"
}

// ParseSortColumn accepts only the columns the backend knows how to order by.
func (d Descriptor[T]) ParseSortColumn(s string) (SortColumn, error) {
	col := SortColumn(s)
	if !slices.Contains(d.SortColumns, col) {
		return "", fmt.Errorf("unknown %s sort column %q (valid: %v)", d.Name, s, d.SortColumns)
	}
	return col, nil
}

// NextSortColumn cycles through the sortable columns.
func (d Descriptor[T]) NextSortColumn(cur SortColumn) SortColumn {
	if len(d.SortColumns) == 0 {
		return cur
	}
	i := slices.Index(d.SortColumns, cur)
	return d.SortColumns[(i+1)%len(d.SortColumns)]
}

const (
	SortByID     SortColumn = "id"
	SortByName   SortColumn = "name"
	SortByPrice  SortColumn = "price"
	SortByType   SortColumn = "type"
	SortByActive SortColumn = "active"
)

var Products = Descriptor[Product]{
	Name:        "product",
	Plural:      "products",
	Title:       "Products",
	Resource:    "product",
	SortColumns: []SortColumn{SortByID, SortByName, SortByPrice, SortByType, SortByActive},
	DefaultSort: Sort{Column: SortByName, Ascending: true},
	Blank: func() Product {
		return Product{Type: TypeFruit, Active: true}
	},
	Validate: ValidateProduct,
}

var Brands = Descriptor[Brand]{
	Name:        "brand",
	Plural:      "brands",
	Title:       "Brands",
	Resource:    "brand",
	SortColumns: []SortColumn{SortByID, SortByName, SortByActive},
	DefaultSort: Sort{Column: SortByName, Ascending: true},
	Blank: func() Brand {
		return Brand{Active: true}
	},
	Validate: ValidateBrand,
}
