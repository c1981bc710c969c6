package repository

import "errors"

// ErrInvalidEvent tags appends rejected for missing required fields.
var ErrInvalidEvent = errors.New("invalid event")
