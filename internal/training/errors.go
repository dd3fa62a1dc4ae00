package training

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrStorage          = errors.New("storage error")
)

// UnknownDimensionError is returned when a dimension name is not one of the five.
type UnknownDimensionError struct {
	Name string
}

func (e *UnknownDimensionError) Error() string {
	return fmt.Sprintf("unknown dimension: %s", e.Name)
}

func (e *UnknownDimensionError) Is(target error) bool {
	return target == ErrUnknownDimension
}

// StorageError wraps a failure to read or write a persisted document.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// InvalidArguments wraps a message so callers can match ErrInvalidArguments.
func InvalidArguments(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArguments, fmt.Sprintf(format, args...))
}
