package prefs

import (
	"context"
	"sync"
)

// Registry lazily opens one Store per user over a shared blob store.
type Registry struct {
	blobs BlobStore

	mu     sync.Mutex
	stores map[string]*Store
}

// NewRegistry returns an empty registry.
func NewRegistry(blobs BlobStore) *Registry {
	return &Registry{blobs: blobs, stores: make(map[string]*Store)}
}

// ForUser returns the store of userID, loading it on first use.
func (r *Registry) ForUser(ctx context.Context, userID string) (*Store, error) {
	key := KeyForUser(userID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[key]; ok {
		return store, nil
	}
	store, err := New(ctx, r.blobs, key)
	if err != nil {
		return nil, err
	}
	r.stores[key] = store
	return store, nil
}
