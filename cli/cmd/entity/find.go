package entity

import (
	"context"
	"fmt"

	"github.com/retailcat/catalogadmin/cli/helpers"
	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/catalogapi"
)

// FindByID walks the pages ordered by id until it meets the entity. The
// backend has no single-item lookup.
func FindByID[T catalog.Entity](ctx context.Context, client *catalogapi.Client[T], id string) (T, error) {
	var zero T
	sort := catalog.Sort{Column: catalog.SortByID, Ascending: true}
	for page := 1; ; page++ {
		res, err := client.List(ctx, page, sort)
		if err != nil {
			return zero, err
		}
		if res.Superseded() {
			return zero, catalogapi.ErrCancelled
		}
		for _, item := range res.Items {
			if item.GetID() == id {
				return item, nil
			}
		}
		if len(res.Items) == 0 || page >= res.TotalPages {
			break
		}
	}
	desc := client.Descriptor()
	return zero, helpers.NewCliError("NOT_FOUND", fmt.Sprintf("%s %s not found", desc.Name, id))
}
