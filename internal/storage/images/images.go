// Package images holds uploaded screenshots behind revocable handles
package images

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
)

// URLPrefix is where handles are served over HTTP
const URLPrefix = "/api/images/"

// ErrNotFound is returned for unknown or released handles
var ErrNotFound = errors.New("image not found")

// Handle references one stored image
type Handle struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	MIMEType string `json:"mimeType"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
}

// Store keeps image bytes until their handle is released
type Store interface {
	Put(ctx context.Context, data []byte, mimeType, fileName string) (Handle, error)
	Open(ctx context.Context, id string) (io.ReadCloser, Handle, error)
	Release(ctx context.Context, id string) error
}

func newHandle(mimeType, fileName string, size int64) Handle {
	id := uuid.New().String()
	return Handle{
		ID:       id,
		URL:      URLPrefix + id,
		MIMEType: mimeType,
		FileName: fileName,
		Size:     size,
	}
}

type memoryImage struct {
	handle Handle
	data   []byte
}

// MemoryStore keeps images in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	images map[string]memoryImage
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{images: make(map[string]memoryImage)}
}

func (s *MemoryStore) Put(_ context.Context, data []byte, mimeType, fileName string) (Handle, error) {
	handle := newHandle(mimeType, fileName, int64(len(data)))
	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	s.images[handle.ID] = memoryImage{handle: handle, data: stored}
	s.mu.Unlock()

	return handle, nil
}

func (s *MemoryStore) Open(_ context.Context, id string) (io.ReadCloser, Handle, error) {
	s.mu.RLock()
	img, ok := s.images[id]
	s.mu.RUnlock()

	if !ok {
		return nil, Handle{}, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(img.data)), img.handle, nil
}

func (s *MemoryStore) Release(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.images, id)
	return nil
}

// Len reports how many images are held
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
