// Package config holds the process-wide configuration of §6: a single flag
// selecting the in-memory vs file-backed array back-end for all newly
// constructed arrays, plus the temp-file directory (internal/tempfile owns
// the latter's storage; this package is the documented entry point for it).
//
// Mirrors the teacher's module shape of an exported struct guarded by a
// sync.RWMutex with getter/setter methods rather than functional options
// (internal/concurrency.ConcurrencyModule, internal/memory.MemoryModule).
package config

import (
	"sync"

	"github.com/arithmos/vcore/internal/tempfile"
)

// Backend selects which BigIntArray realization new arrays use.
type Backend int

const (
	// InMemory constructs arrays backed by an in-process slice.
	InMemory Backend = iota
	// FileBacked constructs arrays backed by a temp file.
	FileBacked
)

var (
	mu      sync.RWMutex
	backend = InMemory
)

// SetBackend changes which back-end subsequently constructed arrays use.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	backend = b
}

// CurrentBackend returns the active back-end selector.
func CurrentBackend() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// SetTempDir changes the directory used for file-backed array temp files.
func SetTempDir(dir string) { tempfile.SetDir(dir) }

// TempDir returns the directory used for file-backed array temp files.
func TempDir() string { return tempfile.Dir() }
