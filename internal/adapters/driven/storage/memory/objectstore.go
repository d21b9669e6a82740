package memory

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
	"github.com/custodia-labs/meshdrop/internal/metrics"
)

// Ensure ObjectStore implements the interface.
var _ driven.ObjectStore = (*ObjectStore)(nil)

// ObjectPrefix is the URL path every object reference starts with.
const ObjectPrefix = "/objects/"

// ObjectStore is an in-memory implementation of driven.ObjectStore.
// References look like /objects/<uuid> and are served by the web adapter.
type ObjectStore struct {
	mu      sync.RWMutex
	objects map[string]domain.FileHandle
}

// NewObjectStore creates a new in-memory object store.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		objects: make(map[string]domain.FileHandle),
	}
}

// Mint registers a handle under a fresh reference.
func (s *ObjectStore) Mint(handle domain.FileHandle) (string, error) {
	if handle == nil {
		return "", domain.ErrInvalidInput
	}
	ref := ObjectPrefix + uuid.NewString()

	s.mu.Lock()
	s.objects[ref] = handle
	live := len(s.objects)
	s.mu.Unlock()

	metrics.RecordObjectMinted()
	metrics.SetObjectRefsLive(live)
	return ref, nil
}

// Lookup returns the handle behind a reference.
func (s *ObjectStore) Lookup(ref string) (domain.FileHandle, bool) {
	if !strings.HasPrefix(ref, ObjectPrefix) {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.objects[ref]
	return h, ok
}

// Revoke forgets a reference.
func (s *ObjectStore) Revoke(ref string) {
	s.mu.Lock()
	delete(s.objects, ref)
	live := len(s.objects)
	s.mu.Unlock()

	metrics.SetObjectRefsLive(live)
}

// Len returns the number of live references.
func (s *ObjectStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
