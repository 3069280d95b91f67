package localstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/kioku/internal/store"
)

const blobDirName = "blobs"

// BlobStore keeps image attachments as individual files named by a generated
// UUID, so the flashcards value never carries inline image data.
type BlobStore struct {
	dir string
}

// NewBlobStore creates a blob store under dir/blobs.
func NewBlobStore(dir string) (*BlobStore, error) {
	blobDir := filepath.Join(dir, blobDirName)
	if err := os.MkdirAll(blobDir, 0o755); err != nil {
		return nil, store.NewStorageError(blobDirName, "create", err)
	}
	return &BlobStore{dir: blobDir}, nil
}

func (b *BlobStore) path(key string) (string, error) {
	// Keys are UUIDs we generated; reject anything that could escape the dir.
	if key == "" || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", store.ErrBlobNotFound, key)
	}
	return filepath.Join(b.dir, key), nil
}

// Put implements store.BlobStore.
func (b *BlobStore) Put(ctx context.Context, data []byte) (string, error) {
	key := uuid.NewString()
	path, err := b.path(key)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", store.NewStorageError(key, "write", err)
	}
	return key, nil
}

// Get implements store.BlobStore.
func (b *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := b.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", store.ErrBlobNotFound, key)
		}
		return nil, store.NewStorageError(key, "read", err)
	}
	return data, nil
}

// Delete implements store.BlobStore.
func (b *BlobStore) Delete(ctx context.Context, key string) error {
	path, err := b.path(key)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return store.NewStorageError(key, "delete", err)
	}
	return nil
}
