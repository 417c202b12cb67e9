package helpers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/catalogapi"
)

var (
	ErrTimeout = errors.New("operation timed out")
	// ErrConfirmationRequired is returned by destructive commands run without --force.
	ErrConfirmationRequired = errors.New("confirmation required")
)

// CliError is the error shape every command reports. Code is stable and
// meant for scripts; Message is for people.
type CliError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	cause     error
}

func NewCliError(code, message string, details ...string) *CliError {
	e := &CliError{Code: code, Message: message, Timestamp: time.Now()}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

func (e *CliError) Error() string {
	if e.Details == "" {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
}

func (e *CliError) Unwrap() error { return e.cause }

func (e *CliError) WithContext(key string, value any) *CliError {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// WithCause keeps err reachable through errors.Is and errors.As.
func (e *CliError) WithCause(err error) *CliError {
	e.cause = err
	return e
}

// TimeoutError reports an operation that ran past its deadline.
type TimeoutError struct {
	Operation string
	Duration  string
}

func NewTimeoutError(operation, duration string) error {
	return &TimeoutError{Operation: operation, Duration: duration}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %s timed out after %s", e.Operation, e.Duration)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ToCliError maps domain errors onto stable CLI error codes. Errors that are
// already a *CliError pass through; unknown errors return nil.
func ToCliError(err error) *CliError {
	if err == nil {
		return nil
	}
	var (
		cliErr  *CliError
		valErr  *catalog.ValidationError
		reqErr  *catalogapi.RequestFailedError
		saveErr *catalogapi.SaveFailedError
		delErr  *catalogapi.DeleteFailedError
	)
	var out *CliError
	switch {
	case errors.As(err, &cliErr):
		return cliErr
	case errors.As(err, &valErr):
		fields := make(map[string]any, len(valErr.Fields))
		for k, v := range valErr.Fields {
			fields[k] = v
		}
		out = NewCliError("VALIDATION_FAILED", catalog.SummaryWarning).WithContext("fields", fields)
	case errors.Is(err, catalogapi.ErrCancelled):
		out = NewCliError("CANCELLED", "Request was superseded by a newer one")
	case errors.As(err, &reqErr):
		out = NewCliError("REQUEST_FAILED", reqErr.Error()).WithContext("status", reqErr.StatusCode)
	case errors.As(err, &saveErr):
		out = NewCliError("SAVE_FAILED", saveErr.Error()).WithContext("status", saveErr.StatusCode)
	case errors.As(err, &delErr):
		out = NewCliError("DELETE_FAILED", delErr.Error()).WithContext("status", delErr.StatusCode)
	case errors.Is(err, ErrConfirmationRequired):
		out = NewCliError("CONFIRMATION_REQUIRED", "Refusing to delete without --force", err.Error())
	case errors.Is(err, context.Canceled):
		out = NewCliError("OPERATION_CANCELED", "Operation was canceled by user")
	case isTimeout(err):
		out = NewCliError("OPERATION_TIMEOUT", "Operation timed out", err.Error())
	case errors.Is(err, catalogapi.ErrNetwork):
		out = NewCliError("NETWORK_ERROR", "Network Connect Timeout Error", err.Error())
	default:
		return nil
	}
	return out.WithCause(err)
}
