// Package tempfile is the temp-file registrar referenced by spec.md §5:
// "Temp files are per-array; uniqueness is the caller's responsibility (a
// temp-file registrar allocates unique names and deletes them on free)."
//
// Names are allocated with github.com/google/uuid so concurrently
// constructed file-backed arrays never collide even under a shared
// directory, and reads/writes against one file are serialized with
// github.com/rogpeppe/go-internal/lockedfile, matching §5's "reads and
// writes to the same file-backed array must be serialized by the caller;
// the implementation does not interleave them" by making that
// serialization structural rather than advisory.
package tempfile

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"

	"github.com/arithmos/vcore/internal/errs"
)

// registry is the process-wide configurable temp directory (§6: "Temp-file
// directory is configurable").
var (
	mu      sync.RWMutex
	baseDir = os.TempDir()
)

// SetDir overrides the directory new File handles are allocated under.
func SetDir(dir string) {
	mu.Lock()
	defer mu.Unlock()
	baseDir = dir
}

// Dir returns the current temp-file directory.
func Dir() string {
	mu.RLock()
	defer mu.RUnlock()
	return baseDir
}

// File owns one uniquely-named temp file for the lifetime of a file-backed
// array or permutation. Free is idempotent, as required of BigIntArray.free
// in §3.
type File struct {
	path string
	mu   sync.Mutex
	freed bool
}

// New allocates a fresh, uniquely named temp file under the configured
// directory. prefix is a human-readable hint (e.g. "bigintarray",
// "permutation") only; uniqueness comes from the UUID suffix.
func New(prefix string) (*File, error) {
	name := prefix + "-" + uuid.New().String() + ".tmp"
	path := filepath.Join(Dir(), name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_EXCL, 0o600)
	if err != nil {
		return nil, errs.Wrap(errs.IO, errors.Wrap(err, "tempfile create"), "failed to create temp file")
	}
	_ = f.Close()
	return &File{path: path}, nil
}

// Path returns the underlying filesystem path.
func (f *File) Path() string { return f.path }

// Locked opens the file through lockedfile, serializing this process's
// concurrent readers/writers against one another for the duration of fn.
func (f *File) Locked(flag int, fn func(*lockedfile.File) error) error {
	lf, err := lockedfile.OpenFile(f.path, flag, 0o600)
	if err != nil {
		return errs.Wrap(errs.IO, err, "failed to lock temp file")
	}
	defer lf.Close()
	return fn(lf)
}

// Free deletes the backing file. It is safe to call more than once.
func (f *File) Free() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.freed {
		return nil
	}
	f.freed = true
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.IO, err, "failed to remove temp file")
	}
	return nil
}
