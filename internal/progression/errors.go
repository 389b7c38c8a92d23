package progression

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCycle is returned when advancement is attempted on a cycle
	// with no items or no plan with any days left to rotate over.
	ErrEmptyCycle = errors.New("cycle has no usable plans")

	// ErrDanglingPlan is returned when every item in a cycle references a
	// deleted plan. A partially dangling cycle is handled by skipping.
	ErrDanglingPlan = errors.New("all cycle items reference deleted plans")

	// ErrHasCompletedSets blocks a day change that would destroy logged work.
	ErrHasCompletedSets = errors.New("workout day has completed sets")

	// ErrDayIndexOutOfRange is returned when a day jump targets a day the
	// plan does not have.
	ErrDayIndexOutOfRange = errors.New("day index out of range")
)
