package catalogapi

import (
	"errors"
	"fmt"
)

var (
	ErrRequestFailed = errors.New("request failed")
	ErrNetwork       = errors.New("network error")
	ErrSaveFailed    = errors.New("save failed")
	ErrDeleteFailed  = errors.New("delete failed")
	// ErrCancelled marks a save or delete aborted because a newer request took the slot.
	ErrCancelled = errors.New("request cancelled by a newer request")
)

// RequestFailedError is returned when a list or version call gets a non-2xx status.
type RequestFailedError struct {
	Entity     string
	StatusCode int
	StatusText string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("Error retrieving %s! %s", e.Entity, e.StatusText)
}

func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}

// NetworkError wraps any transport failure other than a supersede.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "Network Connect Timeout Error"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// SaveFailedError is returned when the backend rejects a create or update.
type SaveFailedError struct {
	Entity     string
	ID         string
	Name       string
	StatusCode int
}

func (e *SaveFailedError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("Issue adding %s: %s", e.Entity, e.Name)
	}
	return fmt.Sprintf("Issue saving %s with id: %s", e.Entity, e.ID)
}

func (e *SaveFailedError) Is(target error) bool {
	return target == ErrSaveFailed
}

// DeleteFailedError is returned when the backend rejects a delete.
type DeleteFailedError struct {
	Entity     string
	ID         string
	StatusCode int
}

func (e *DeleteFailedError) Error() string {
	return fmt.Sprintf("Issue deleting %s with id: %s", e.Entity, e.ID)
}

func (e *DeleteFailedError) Is(target error) bool {
	return target == ErrDeleteFailed
}
