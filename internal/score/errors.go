package score

import "fmt"

// MissingCriterionError is returned when a room has no value for a criterion
// declared by the active scheme. It aborts the scoring run.
type MissingCriterionError struct {
	Room      string
	Criterion string
}

// Error returns the text description of the error.
func (e *MissingCriterionError) Error() string {
	return fmt.Sprintf("room %q: missing value for criterion %q", e.Room, e.Criterion)
}

// NewMissingCriterionError creates a MissingCriterionError for room and criterion.
func NewMissingCriterionError(room, criterion string) *MissingCriterionError {
	return &MissingCriterionError{Room: room, Criterion: criterion}
}

// InvalidCriterionValueError is returned when a criterion value has the wrong kind,
// e.g. a numeric reading where the scheme expects a rating label.
type InvalidCriterionValueError struct {
	Room      string
	Criterion string
	Want      Kind
	Got       Value
}

// Error returns the text description of the error.
func (e *InvalidCriterionValueError) Error() string {
	return fmt.Sprintf("room %q: criterion %q wants a %s value, got %s %q",
		e.Room, e.Criterion, e.Want, e.Got.Kind, e.Got)
}

// NewInvalidCriterionValueError creates an InvalidCriterionValueError.
func NewInvalidCriterionValueError(room, criterion string, want Kind, got Value) *InvalidCriterionValueError {
	return &InvalidCriterionValueError{Room: room, Criterion: criterion, Want: want, Got: got}
}
