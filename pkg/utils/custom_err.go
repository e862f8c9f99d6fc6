package utils

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidPage      = errors.New("invalid page parameter")
	ErrInvalidPageSize  = errors.New("invalid page size parameter")
	ErrDatabaseError    = errors.New("database error")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrPlanNotFound     = errors.New("travel plan not found")
	ErrTransport        = errors.New("generation request failed")
	ErrUnrecognizedPlan = errors.New("no recognized response shape")
	ErrInvalidPlan      = errors.New("invalid travel plan fields")
)

// ParseError records a payload that was expected to hold JSON but did not.
// It is attached to ErrUnrecognizedPlan for diagnostics and never surfaces on
// its own.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s payload: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
