package hepdf

import (
	"errors"
	"fmt"

	"github.com/hupe1980/hepdf/blobstore"
)

// ErrSnapshotNotFound is returned by Open when the named snapshot does not
// exist in the store.
var ErrSnapshotNotFound = errors.New("hepdf: snapshot not found")

// ErrSnapshotError wraps a snapshot IO or decode failure with the blob name.
type ErrSnapshotError struct {
	Name string
	Op   string // "save" or "open"
	Err  error
}

// Error implements the error interface.
func (e *ErrSnapshotError) Error() string {
	return fmt.Sprintf("hepdf: snapshot %s %q: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ErrSnapshotError) Unwrap() error {
	return e.Err
}

func wrapSnapshotErr(op, name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %q", ErrSnapshotNotFound, name)
	}
	return &ErrSnapshotError{Name: name, Op: op, Err: err}
}
