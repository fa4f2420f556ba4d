package cache

import (
	"context"
	"io"

	"github.com/hupe1980/rhythmgo/blobstore"
)

// Store is a read-through caching decorator around a blobstore.BlobStore.
// Opened blobs are read fully and kept in an LRU, so repeated session and
// snapshot loads skip the backing store. Writes go through to the backing
// store and refresh the cache; deletes invalidate it.
type Store struct {
	inner blobstore.BlobStore
	lru   *LRU
}

// NewStore wraps inner with the given cache.
func NewStore(inner blobstore.BlobStore, lru *LRU) *Store {
	return &Store{inner: inner, lru: lru}
}

// Open returns a blob served from cache when possible.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if data, ok := s.lru.Get(name); ok {
		return &cachedBlob{data: data}, nil
	}

	data, err := blobstore.ReadAll(ctx, s.inner, name)
	if err != nil {
		return nil, err
	}
	s.lru.Set(name, data)
	return &cachedBlob{data: data}, nil
}

// Put writes through to the backing store and refreshes the cache.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	if err := s.inner.Put(ctx, name, data); err != nil {
		return err
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	s.lru.Set(name, copied)
	return nil
}

// Delete removes the blob from the backing store and the cache.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.lru.Invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List delegates to the backing store.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type cachedBlob struct {
	data []byte
}

func (b *cachedBlob) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *cachedBlob) Close() error { return nil }

func (b *cachedBlob) Size() int64 { return int64(len(b.data)) }
