package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

type storedBlob struct {
	contentType string
	content     []byte
}

// MemoryStore is a thread-safe in-memory BlobStore used in development and
// tests.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]*storedBlob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]*storedBlob)}
}

func (s *MemoryStore) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return ErrFileTooLarge
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("short content: expected %d bytes, read %d", size, len(data))
	}

	s.mu.Lock()
	s.blobs[key] = &storedBlob{contentType: contentType, content: data}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (io.ReadCloser, *Object, error) {
	s.mu.RLock()
	blob, ok := s.blobs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrBlobNotFound
	}
	obj := &Object{Key: key, ContentType: blob.contentType, Size: int64(len(blob.content))}
	return io.NopCloser(bytes.NewReader(blob.content)), obj, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
