package submission

import (
	"errors"
	"sort"
	"strings"

	"github.com/goliatone/go-userform/pkg/model"
)

var (
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("submission: a persistence call is already in flight")
	// ErrPersistence wraps every failure reported by the store.
	ErrPersistence = errors.New("submission: persistence call failed")
)

// ValidationError blocks a submission. Errors carries every failing field;
// all fields are touched on the state so renderers show them at once.
type ValidationError struct {
	Errors model.Errors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Errors))
	for name := range e.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	return "submission: invalid fields: " + strings.Join(names, ", ")
}

// IsValidation reports whether err blocked a submission on validation.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
