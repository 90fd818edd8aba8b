package document

import "errors"

var (
	// ErrDocumentNotFound is returned by a Backend when nothing has been stored yet.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrStorageUnavailable wraps I/O failures of the backing medium.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrCorruptStore is returned when the stored document fails the schema check.
	ErrCorruptStore = errors.New("corrupt store")
	// ErrIDExhausted means the generator kept producing identifiers already in use.
	ErrIDExhausted = errors.New("could not allocate a unique id")
)
