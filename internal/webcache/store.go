// Package webcache mirrors the app's offline cache: a versioned store
// of fetched responses with two retrieval policies, cache-first for
// static assets and network-first for data files.
package webcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists responses under root/<version>/. Each cache version
// is its own directory so activation can cut over atomically by
// removing every other generation.
type Store struct {
	root    string
	version string
}

func NewStore(root, version string) (*Store, error) {
	if root == "" || version == "" {
		return nil, fmt.Errorf("cache root and version are required")
	}
	if err := os.MkdirAll(filepath.Join(root, version), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Store{root: root, version: version}, nil
}

// Version returns the active cache generation name.
func (s *Store) Version() string {
	return s.version
}

// Activate garbage-collects every generation other than the active
// one. Prior caches never mix with the current generation.
func (s *Store) Activate() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("read cache root: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == s.version {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, entry.Name())); err != nil {
			return fmt.Errorf("remove stale cache %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func (s *Store) Get(key string) ([]byte, bool, error) {
	body, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	return body, true, nil
}

func (s *Store) Put(key string, body []byte) error {
	if err := os.WriteFile(s.entryPath(key), body, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func (s *Store) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.root, s.version, hex.EncodeToString(sum[:]))
}
