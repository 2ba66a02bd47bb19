// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package blobstore owns the downloadable resources behind conversion
// artifacts. Each blob is reachable through an object URL until it is
// revoked; revoking drops the store's reference to the bytes.
package blobstore

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// URLPrefix starts every URL the store hands out.
const URLPrefix = "blob:snapmerge/"

// ErrNotFound is returned for URLs that were never issued or have been revoked.
var ErrNotFound = errors.New("blob not found")

// Blob is a live stored object.
type Blob struct {
	Content     []byte
	ContentType string
}

// Store maps object URLs to blobs. The zero value is not usable; call New.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]Blob
}

// New creates an empty store.
func New() *Store {
	return &Store{blobs: make(map[string]Blob)}
}

// Create stores content and returns its object URL.
func (s *Store) Create(content []byte, contentType string) string {
	url := URLPrefix + uuid.NewString()
	s.mu.Lock()
	s.blobs[url] = Blob{Content: content, ContentType: contentType}
	s.mu.Unlock()
	return url
}

// Open returns the blob behind url.
func (s *Store) Open(url string) (Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[url]
	if !ok {
		return Blob{}, ErrNotFound
	}
	return b, nil
}

// Revoke releases the blob behind url. It reports whether the URL was live;
// revoking twice is harmless.
func (s *Store) Revoke(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[url]; !ok {
		return false
	}
	delete(s.blobs, url)
	return true
}

// RevokeAll releases every blob and returns how many were live.
func (s *Store) RevokeAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.blobs)
	s.blobs = make(map[string]Blob)
	return n
}

// Len returns the number of live blobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// ID returns the opaque identifier part of an object URL, or "" when url
// was not issued by a Store.
func ID(url string) string {
	id, ok := strings.CutPrefix(url, URLPrefix)
	if !ok {
		return ""
	}
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}

// URL rebuilds an object URL from its identifier.
func URL(id string) string {
	return URLPrefix + id
}
