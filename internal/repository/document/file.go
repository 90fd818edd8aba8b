package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	documentFileName = "db.json"

	defaultLockTimeout = 3 * time.Second
	lockRetryDelay     = 50 * time.Millisecond
)

// FileBackend keeps the document in <dir>/db.json. Writers hold an exclusive
// flock on db.json.lock, so separate processes sharing the directory do not
// interleave. Readers never see a partial file because writes go through a
// temp file and a rename.
type FileBackend struct {
	dir         string
	path        string
	lock        *flock.Flock
	lockTimeout time.Duration
}

func NewFileBackend(dir string, lockTimeout time.Duration) *FileBackend {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	path := filepath.Join(dir, documentFileName)
	return &FileBackend{
		dir:         dir,
		path:        path,
		lock:        flock.New(path + ".lock"),
		lockTimeout: lockTimeout,
	}
}

func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageUnavailable, b.path, err)
	}
	return data, nil
}

func (b *FileBackend) Update(ctx context.Context, fn UpdateFunc) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %v", ErrStorageUnavailable, err)
	}

	unlock, err := b.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := os.ReadFile(b.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: read %s: %v", ErrStorageUnavailable, b.path, err)
		}
		current = nil
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	return b.writeAtomic(next)
}

func (b *FileBackend) Close() error {
	return b.lock.Close()
}

func (b *FileBackend) acquire(ctx context.Context) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, b.lockTimeout)
	defer cancel()

	locked, err := b.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: lock %s: %v", ErrStorageUnavailable, b.lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: lock %s: not acquired", ErrStorageUnavailable, b.lock.Path())
	}
	return func() { _ = b.lock.Unlock() }, nil
}

func (b *FileBackend) writeAtomic(data []byte) error {
	tmp, err := os.CreateTemp(b.dir, documentFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrStorageUnavailable, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: write temp file: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: sync temp file: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: close temp file: %v", ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: replace %s: %v", ErrStorageUnavailable, b.path, err)
	}
	return nil
}
