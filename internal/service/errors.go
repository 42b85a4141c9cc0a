package service

import (
	"errors"
	"strings"
)

// ErrMaximumPagination is returned when a caller asks for a page larger than
// the service allows.
var ErrMaximumPagination = errors.New("maximum pagination reached")

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}
