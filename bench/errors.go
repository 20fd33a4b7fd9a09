package bench

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFile is returned when an uploaded file has no content
	ErrEmptyFile = errors.New("file is empty")
	// ErrFileTooLarge is returned when an upload exceeds the intake size limit
	ErrFileTooLarge = errors.New("file exceeds the size limit")
	// ErrNotUTF8 is returned when an upload is not valid UTF-8 text
	ErrNotUTF8 = errors.New("file is not valid UTF-8 text")
)

// InvalidFileError is returned when a file name lacks the required extension
type InvalidFileError struct {
	Name      string
	Extension string
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("please upload a %s file (got %q)", e.Extension, e.Name)
}

// ReadError is returned when an accepted file could not be read as text
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// MissingCircuitError is returned when a run is requested before a circuit is loaded
type MissingCircuitError struct{}

func (e *MissingCircuitError) Error() string {
	return "please upload a QASM circuit"
}

// EmptySelectionError is returned when a run is requested with no backends selected
type EmptySelectionError struct{}

func (e *EmptySelectionError) Error() string {
	return "select at least one simulator"
}
