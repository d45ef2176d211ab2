package engine

import "errors"

var (
	// ErrTypeMismatch indicates a kind/carrier disagreement: a wrongly typed
	// key column in a source block, a value carrier that does not match the
	// declared attribute kind, or a getter invoked with the wrong type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrLengthMismatch indicates batch output length differs from input.
	ErrLengthMismatch = errors.New("output length does not match input length")
)
