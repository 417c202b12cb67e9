package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// SummaryWarning is shown whenever a submit is blocked by field errors.
const SummaryWarning = "Fix validation messages before saving"

var ErrValidation = errors.New("validation failed")

// ValidationError holds every failing field of a draft at once, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", SummaryWarning, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Message returns the message for one field, or "" when it passed.
func (e *ValidationError) Message(field string) string {
	if e == nil {
		return ""
	}
	return e.Fields[field]
}

var fieldMessages = map[string]string{
	"name":  "Name must be entered",
	"price": "A price must be greater than 0",
	"type":  "Type must be selected",
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if p, ok := field.Interface().(Price); ok {
				return p.Float64()
			}
			return nil
		}, Price{})
	})
	return validate
}

func validateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate: %w", err)
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		out.Fields[fe.Field()] = msg
	}
	return out
}

func ValidateProduct(p Product) error {
	return validateStruct(p)
}

func ValidateBrand(b Brand) error {
	return validateStruct(b)
}

// FieldError runs the descriptor's validation and extracts the message for a
// single field, as done when a form field loses focus.
func FieldError[T Entity](d Descriptor[T], draft T, field string) string {
	var verr *ValidationError
	if err := d.Validate(draft); errors.As(err, &verr) {
		return verr.Message(field)
	}
	return ""
}
