package document

import "context"

// UpdateFunc receives the stored bytes (nil when nothing is stored yet) and
// returns the replacement. Returning nil bytes leaves the stored document
// untouched; returning an error aborts without writing.
type UpdateFunc func(current []byte) ([]byte, error)

// Backend stores one opaque document. Update must not let another writer
// observe or interleave with the read-modify-write it performs.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Update(ctx context.Context, fn UpdateFunc) error
	Close() error
}
