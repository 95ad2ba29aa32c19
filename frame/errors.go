package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic is returned when snapshot bytes do not start with the
	// expected magic number.
	ErrBadMagic = errors.New("frame: bad snapshot magic")

	// ErrUnsupportedVersion is returned for snapshot format versions newer
	// than this build understands.
	ErrUnsupportedVersion = errors.New("frame: unsupported snapshot version")

	// ErrChecksumMismatch is returned when a snapshot section fails CRC
	// validation.
	ErrChecksumMismatch = errors.New("frame: snapshot checksum mismatch")

	// ErrUnknownCodec is returned when a snapshot header names a codec that
	// is not registered.
	ErrUnknownCodec = errors.New("frame: unknown snapshot codec")
)

// ErrColumnNotFound indicates a referenced input column does not exist.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrColumnNotFound struct {
	Name  string
	cause error
}

func (e *ErrColumnNotFound) Error() string {
	return fmt.Sprintf("column not found: %q", e.Name)
}

func (e *ErrColumnNotFound) Unwrap() error { return e.cause }

// ErrColumnExists indicates an attempt to define a column under a name that
// is already taken. Derived columns are immutable once defined.
type ErrColumnExists struct {
	Name string
}

func (e *ErrColumnExists) Error() string {
	return fmt.Sprintf("column already exists: %q", e.Name)
}

// ErrColumnType indicates an input column holds a different element type
// than the compute function expects.
type ErrColumnType struct {
	Name     string
	Expected string
	Actual   string
}

func (e *ErrColumnType) Error() string {
	return fmt.Sprintf("column %q: type mismatch: expected %s, got %s", e.Name, e.Expected, e.Actual)
}

// ErrLengthMismatch indicates a column does not have one entry per event.
type ErrLengthMismatch struct {
	Name     string
	Expected int
	Actual   int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("column %q: length mismatch: expected %d entries, got %d", e.Name, e.Expected, e.Actual)
}
