// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

// ErrInvalid marks input rejected by validation. Handlers map it to a 400.
var ErrInvalid = errors.New("invalid input")
