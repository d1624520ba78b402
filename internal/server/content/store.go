// Package content stores raw file bytes under opaque references.
//
// A Store never interprets the bytes. References are generated by Write
// (a fresh uuid) or chosen by the caller with WriteAt, which is how resized
// variants land next to their original (see DerivedRef).
package content

import (
	"context"
	"errors"
	"strconv"
)

var (
	// ErrContentNotFound is returned when no bytes exist under a reference.
	ErrContentNotFound = errors.New("content not found")
	// ErrStorage wraps backend failures (permissions, disk full, network).
	ErrStorage = errors.New("content storage failure")
)

// Store is the only component performing content I/O.
type Store interface {
	// Write persists data under a freshly generated reference.
	Write(ctx context.Context, data []byte) (string, error)
	// WriteAt persists data under ref, replacing any previous bytes.
	WriteAt(ctx context.Context, ref string, data []byte) error
	Read(ctx context.Context, ref string) ([]byte, error)
	Exists(ctx context.Context, ref string) (bool, error)
	// Delete removes the bytes under ref. Deleting a missing reference is
	// not an error.
	Delete(ctx context.Context, ref string) error
}

// DerivedRef names the resized variant of ref for a given width.
func DerivedRef(ref string, size int) string {
	return ref + "_" + strconv.Itoa(size)
}
