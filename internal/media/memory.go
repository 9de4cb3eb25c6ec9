package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/goliatone/go-editkit/pkg/interfaces"
)

// MemoryStore keeps uploaded blobs in memory. Used for tests and for running
// without object storage configured.
type MemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string][]byte
}

// NewMemoryStore builds an in-memory blob store. URLs are formed from baseURL
// plus the object name.
func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "memory://media"
	}
	return &MemoryStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

// Upload stores the payload and returns its URL.
func (m *MemoryStore) Upload(ctx context.Context, upload interfaces.BlobUpload) (string, error) {
	data, err := io.ReadAll(upload.Body)
	if err != nil {
		return "", fmt.Errorf("media: read payload: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[upload.Name] = data
	return m.baseURL + "/" + upload.Name, nil
}

// Delete removes a stored object by URL. Unknown URLs are not an error; the
// asset is gone either way.
func (m *MemoryStore) Delete(ctx context.Context, url string) error {
	name := strings.TrimPrefix(url, m.baseURL+"/")

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, name)
	return nil
}

// Get returns a stored object's bytes, for test assertions.
func (m *MemoryStore) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[name]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
