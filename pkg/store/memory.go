package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mhaertel/inkboard/pkg/errors"
)

// MemoryStore keeps documents in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Infographic
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Infographic)}
}

// Put stores a document, assigning an ID and timestamp when missing.
func (s *MemoryStore) Put(ctx context.Context, info *Infographic) error {
	if info.ID == "" {
		info.ID = NewID()
	}
	if info.CreatedAt.IsZero() {
		info.CreatedAt = time.Now().UTC()
	}

	cp := *info
	s.mu.Lock()
	s.docs[cp.ID] = &cp
	s.mu.Unlock()
	return nil
}

// Get retrieves a document by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Infographic, error) {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeInfographicNotFound, "infographic %s not found", id)
	}
	cp := *doc
	return &cp, nil
}

// List returns documents newest first, up to limit (0 means all).
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*Infographic, error) {
	s.mu.RLock()
	out := make([]*Infographic, 0, len(s.docs))
	for _, doc := range s.docs {
		cp := *doc
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a document. Unknown IDs are ignored.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.docs, id)
	s.mu.Unlock()
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
