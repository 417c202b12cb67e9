package livelist

import (
	"context"

	"github.com/retailcat/catalogadmin/pkg/catalog"
)

// Msg is a result produced by a Task and fed back through Controller.Apply.
type Msg interface {
	liveListMsg()
}

// Task is asynchronous work requested by the controller. The host event loop
// runs it off-thread and hands the resulting Msg back to Apply.
type Task func(ctx context.Context) Msg

// ListResult carries the outcome of one list request, tagged with the
// sequence number it was issued under.
type ListResult[T catalog.Entity] struct {
	Seq  uint64
	Page *catalog.Page[T]
	Err  error
}

// SaveResult carries the outcome of submitting the open draft.
type SaveResult[T catalog.Entity] struct {
	Entity T
	Err    error
}

// DeleteResult carries the outcome of a confirmed delete.
type DeleteResult struct {
	ID  string
	Err error
}

func (ListResult[T]) liveListMsg() {}
func (SaveResult[T]) liveListMsg() {}
func (DeleteResult) liveListMsg()  {}
