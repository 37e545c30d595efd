// Package storage handles the download directory: atomic file writes and
// duplicate detection across re-runs.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Manager owns a download directory
type Manager struct {
	dir      string
	existing map[string]bool
	mu       sync.RWMutex
}

// NewManager creates the download directory if needed and indexes the
// files already in it.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	m := &Manager{
		dir:      dir,
		existing: make(map[string]bool),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read download directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			m.existing[entry.Name()] = true
		}
	}

	return m, nil
}

// Exists reports whether a file with this name was already downloaded
func (m *Manager) Exists(filename string) bool {
	m.mu.RLock()
	if m.existing[filename] {
		m.mu.RUnlock()
		return true
	}
	m.mu.RUnlock()

	if _, err := os.Stat(filepath.Join(m.dir, filename)); err == nil {
		m.mu.Lock()
		m.existing[filename] = true
		m.mu.Unlock()
		return true
	}
	return false
}

// Save streams the reader to a file in the download directory. The data is
// written to a temporary file and renamed into place so a failed download
// never leaves a partial file behind.
func (m *Manager) Save(r io.Reader, filename string) error {
	target := filepath.Join(m.dir, filename)
	tmp := target + ".tmp"

	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, copyErr := io.Copy(out, r)
	closeErr := out.Close()

	if copyErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write file data: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.existing[filename] = true
	m.mu.Unlock()

	return nil
}

// Dir returns the download directory path
func (m *Manager) Dir() string {
	return m.dir
}

// Count returns the number of files known to the manager
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.existing)
}
