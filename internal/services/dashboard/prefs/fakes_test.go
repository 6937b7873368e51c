package prefs

import (
	"context"
	"errors"
	"sync"
)

type fakeBlobStore struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	puts   int
	getErr error
	putErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (f *fakeBlobStore) GetPreferences(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	blob, ok := f.blobs[key]
	return blob, ok, nil
}

func (f *fakeBlobStore) PutPreferences(_ context.Context, key string, blob []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	f.blobs[key] = append([]byte(nil), blob...)
	return nil
}

var errBoom = errors.New("boom")
