package mandel

import "errors"

var (
	// ErrInvalidView is returned for views with a non-positive or
	// non-finite zoom, or a non-finite centre.
	ErrInvalidView = errors.New("invalid view")

	// ErrInvalidGrid is returned for grids without samples.
	ErrInvalidGrid = errors.New("invalid grid")

	// ErrInvalidBudget is returned when an iteration policy yields fewer
	// than one iteration.
	ErrInvalidBudget = errors.New("invalid iteration budget")

	// ErrWorkerFailure marks a computation abandoned because one of its
	// workers failed. No partial result accompanies it.
	ErrWorkerFailure = errors.New("worker failure")
)
