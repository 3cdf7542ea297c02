package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrSourceUnavailable means the backing store could not be reached.
	ErrSourceUnavailable = errors.New("record source unavailable")
	ErrNotFound          = errors.New("not found")
	ErrInvalidDraft      = errors.New("invalid draft")
	ErrInvalidStatus     = errors.New("invalid status")

	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// InvalidDraftError names the required draft fields that were empty.
type InvalidDraftError struct {
	Missing []string
}

func (e *InvalidDraftError) Error() string {
	return "missing required field(s): " + strings.Join(e.Missing, ", ")
}

// Is lets errors.Is(err, ErrInvalidDraft) match.
func (e *InvalidDraftError) Is(target error) bool {
	return target == ErrInvalidDraft
}

var draftValidator = newDraftValidator()

func newDraftValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func newInvalidDraftError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, fe.Field())
	}
	return &InvalidDraftError{Missing: missing}
}
