package chart

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Surface receives rendered chart documents keyed by canvas.
type Surface interface {
	Put(canvas string, page []byte) error
	Remove(canvas string) error
}

// MemorySurface keeps the latest document per canvas; the preview server reads from it.
type MemorySurface struct {
	mu    sync.RWMutex
	pages map[string][]byte
}

// NewMemorySurface returns an empty surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{pages: make(map[string][]byte)}
}

// Put stores a copy of page.
func (m *MemorySurface) Put(canvas string, page []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[canvas] = append([]byte(nil), page...)
	return nil
}

// Remove drops the canvas document.
func (m *MemorySurface) Remove(canvas string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pages, canvas)
	return nil
}

// Get returns the current document for canvas.
func (m *MemorySurface) Get(canvas string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page, ok := m.pages[canvas]
	return page, ok
}

// DirSurface writes each canvas to <Dir>/<canvas>.html.
type DirSurface struct {
	Dir string
}

// Path returns the file backing canvas.
func (d DirSurface) Path(canvas string) (string, error) {
	if canvas == "" || strings.ContainsAny(canvas, `/\`) || strings.Contains(canvas, "..") {
		return "", fmt.Errorf("invalid canvas id %q", canvas)
	}
	return filepath.Join(d.Dir, canvas+".html"), nil
}

// Put writes page to disk.
func (d DirSurface) Put(canvas string, page []byte) error {
	path, err := d.Path(canvas)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	return os.WriteFile(path, page, 0o644)
}

// Remove deletes the canvas file; a missing file is not an error.
func (d DirSurface) Remove(canvas string) error {
	path, err := d.Path(canvas)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
