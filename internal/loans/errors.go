package loans

import "errors"

var (
	ErrNotFound     = errors.New("loan not found")
	ErrInvalidInput = errors.New("invalid input")
)
