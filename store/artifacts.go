package store

import (
	"sync"

	"github.com/bettersg/checkmate-agent/internal/util"
)

// Artifact is a captured binary blob plus the content type it should be
// served with.
type Artifact struct {
	Data     []byte
	MimeType string
}

// ArtifactStore keeps screenshot bytes (and any future media) keyed by a
// generated id. It is safe for concurrent access and copies data on save and
// retrieval to avoid accidental external mutation of internal buffers.
//
// This implementation is intentionally minimal; it does not enforce retention
// limits, size quotas, or eviction. For production, prefer a durable backend
// (e.g. S3 / GCS) that survives process restarts.
type ArtifactStore struct {
	mu        sync.RWMutex
	artifacts map[string]Artifact
}

// NewArtifactStore returns an empty in-memory artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{artifacts: make(map[string]Artifact)}
}

// Save stores the bytes under a freshly generated id and returns that id.
// The input slice is copied before storage.
func (s *ArtifactStore) Save(data []byte, mimeType string) string {
	id := util.NewID()
	cp := make([]byte, len(data))
	copy(cp, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[id] = Artifact{Data: cp, MimeType: mimeType}
	return id
}

// Get returns a copy of the stored artifact or ErrNotFound.
func (s *ArtifactStore) Get(id string) (Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.artifacts[id]
	if !ok {
		return Artifact{}, ErrNotFound
	}
	cp := make([]byte, len(a.Data))
	copy(cp, a.Data)
	return Artifact{Data: cp, MimeType: a.MimeType}, nil
}

// Delete removes the artifact if present or returns ErrNotFound.
func (s *ArtifactStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.artifacts[id]; !ok {
		return ErrNotFound
	}
	delete(s.artifacts, id)
	return nil
}
