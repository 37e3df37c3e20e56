// Package manifest persists install manifests so uninstall removes exactly what install placed.
package manifest

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestStore = (*Store)(nil)

// Store implements ports.ManifestStore using a flat JSON file keyed by target name.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.InstallManifest
}

// NewStore creates a Store backed by the file at path. A missing file is an empty store.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.InstallManifest),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read install manifest"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal install manifest"), "path", s.path)
	}
	return nil
}

// save writes the cache to disk. The caller must hold s.mu.
func (s *Store) save() error {
	if len(s.cache) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, "failed to remove install manifest"), "path", s.path)
		}
		return nil
	}

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal install manifest")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory for install manifest"), "path", s.path)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil { //nolint:gosec // manifest is not secret
		return zerr.With(zerr.Wrap(err, "failed to write install manifest"), "path", s.path)
	}
	return nil
}

// Get retrieves the manifest for a target name.
func (s *Store) Get(target string) (*domain.InstallManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.cache[target]
	if !ok {
		return nil, nil
	}
	m.Files = append([]string(nil), m.Files...)
	return &m, nil
}

// Put stores the manifest and writes the store to disk.
func (s *Store) Put(m domain.InstallManifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.Files = append([]string(nil), m.Files...)
	s.cache[m.Target] = m
	return s.save()
}

// Delete forgets the manifest for target and writes the store to disk.
func (s *Store) Delete(target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache[target]; !ok {
		return nil
	}
	delete(s.cache, target)
	return s.save()
}
