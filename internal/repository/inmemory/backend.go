package inmemory

import (
	"context"
	"sync"

	"bringlist/internal/repository/document"
)

// Backend keeps the document in process memory. Nothing survives a restart;
// it backs STORE_BACKEND=memory and tests.
type Backend struct {
	mu   sync.RWMutex
	data []byte
}

var _ document.Backend = (*Backend)(nil)

func NewBackend() *Backend {
	return &Backend{}
}

func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return nil, document.ErrDocumentNotFound
	}
	return cloneBytes(b.data), nil
}

func (b *Backend) Update(ctx context.Context, fn document.UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var current []byte
	if b.data != nil {
		current = cloneBytes(b.data)
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if next != nil {
		b.data = cloneBytes(next)
	}
	return nil
}

func (b *Backend) Close() error {
	return nil
}

func cloneBytes(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
