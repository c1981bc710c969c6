package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
)

// NewKind tags a sentinel with the operation that raised it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// Wrap tags an arbitrary error with the operation that raised it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind tags an error with both an operation and a sentinel kind.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
