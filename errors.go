package dictcache

import (
	"errors"
	"fmt"

	"github.com/hupe1980/dictcache/column"
	"github.com/hupe1980/dictcache/internal/engine"
)

var (
	// ErrUnsupportedSource is returned at construction when the configured
	// source cannot load records selectively by key list.
	ErrUnsupportedSource = errors.New("source cannot be used with a cache dictionary")

	// ErrTypeMismatch is returned when a requested attribute kind disagrees
	// with the declared kind, or a source block carries a wrongly typed key
	// column.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrBadArguments is returned for malformed requests, such as an output
	// slice whose length differs from the key slice.
	ErrBadArguments = errors.New("bad arguments")
)

// ErrUnknownAttribute indicates a request for an attribute the structure
// does not declare.
type ErrUnknownAttribute struct {
	Name string
}

func (e *ErrUnknownAttribute) Error() string {
	return fmt.Sprintf("no such attribute %q", e.Name)
}

// Is makes the typed error match ErrBadArguments.
func (e *ErrUnknownAttribute) Is(target error) bool { return target == ErrBadArguments }

// ErrAttributeTypeMismatch indicates a getter of one kind invoked on an
// attribute declared as another.
type ErrAttributeTypeMismatch struct {
	Attribute string
	Declared  column.Kind
	Requested column.Kind
}

func (e *ErrAttributeTypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch: attribute %s has type %s, requested %s",
		e.Attribute, e.Declared, e.Requested)
}

// Is makes the typed error match ErrTypeMismatch.
func (e *ErrAttributeTypeMismatch) Is(target error) bool { return target == ErrTypeMismatch }

// translateError maps engine errors onto the public error surface.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, engine.ErrTypeMismatch) {
		return fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}
	if errors.Is(err, engine.ErrLengthMismatch) {
		return fmt.Errorf("%w: %w", ErrBadArguments, err)
	}
	return err
}
