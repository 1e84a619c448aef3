// Package storage defines the image storage contract used by the
// orchestration layers and provides a local filesystem implementation.
// References are opaque strings; callers never interpret them beyond
// equality checks.
package storage

import (
	"errors"
	"io"
)

// ErrNotFound reports that a referenced image is absent from storage.
var ErrNotFound = errors.New("reference not found")

// Store is the persistence contract for original images, enhancement
// variants and OCR sidecar artifacts.
type Store interface {
	// Save persists data under a suggested reference (may be empty) and
	// returns the reference actually used. Collisions are resolved by the
	// store, not the caller.
	Save(data []byte, ext, suggested string) (string, error)

	// Exists reports whether a reference resolves to stored data.
	Exists(ref string) bool

	// OpenRead opens the stored data for reading from its start.
	OpenRead(ref string) (io.ReadCloser, error)

	// SaveVariant persists data as a derivative of baseRef, composing the
	// new reference from the base name and the given suffix.
	SaveVariant(data []byte, baseRef, suffix, ext string) (string, error)

	// SaveSidecar writes an artifact file alongside ref, named ref+suffix,
	// and returns the path written.
	SaveSidecar(data []byte, ref, suffix string) (string, error)
}
