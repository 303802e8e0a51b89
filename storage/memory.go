package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"video-subtitles/entities"
)

// MemoryStore is an in-process BlobStore for tests and local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]memoryBlob
}

type memoryBlob struct {
	data        []byte
	contentType string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string]memoryBlob),
	}
}

func (s *MemoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = memoryBlob{data: data, contentType: contentType}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (io.ReadCloser, BlobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[key]
	if !ok {
		return nil, BlobInfo{}, entities.ErrNotFound
	}
	info := BlobInfo{ContentType: blob.contentType, Size: int64(len(blob.data))}
	return io.NopCloser(bytes.NewReader(blob.data)), info, nil
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.blobs))
	for key := range s.blobs {
		keys = append(keys, key)
	}
	return keys, nil
}
