package catalog

import "net/http"

// StatusClientClosedRequest marks a page whose request was superseded by a newer one.
const StatusClientClosedRequest = 499

// DefaultPageSize is the number of rows the backend returns per page.
const DefaultPageSize = 10

// Page is one server-paginated batch of entities plus paging metadata.
type Page[T any] struct {
	Items       []T `json:"items"`
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`

	// Status is the HTTP status of the exchange that produced the page.
	Status int `json:"-"`
}

// Superseded reports whether this is the cancellation sentinel rather than data.
func (p *Page[T]) Superseded() bool {
	return p != nil && p.Status == StatusClientClosedRequest
}

// CancelledPage builds the sentinel returned for an aborted list request.
func CancelledPage[T any]() *Page[T] {
	return &Page[T]{Status: StatusClientClosedRequest}
}

// EmptyPage is what a 2xx response without a usable body decodes to.
func EmptyPage[T any]() *Page[T] {
	return &Page[T]{Items: []T{}, Status: http.StatusOK}
}

type SortColumn string

// Sort is the server-side ordering sent with every list request.
type Sort struct {
	Column    SortColumn `json:"column"`
	Ascending bool       `json:"ascending"`
}

// Toggle returns the sort that results from selecting col: the active column
// flips direction, any other column becomes active ascending.
func (s Sort) Toggle(col SortColumn) Sort {
	if s.Column == col {
		return Sort{Column: col, Ascending: !s.Ascending}
	}
	return Sort{Column: col, Ascending: true}
}
