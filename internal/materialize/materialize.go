// Package materialize writes an artifact set into a directory.
package materialize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tsukumogami/sitegen/internal/artifact"
	"github.com/tsukumogami/sitegen/internal/log"
)

// PathTraversalError reports an artifact key that would escape the target
// directory.
type PathTraversalError struct {
	Name string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("artifact name %q escapes the output directory", e.Name)
}

// WriteError wraps a filesystem failure for one path.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Writer writes artifacts to disk.
type Writer struct {
	// Concurrency caps in-flight writes. Zero means unlimited.
	Concurrency int
	Perm        os.FileMode
	Logger      log.Logger
}

// New returns a Writer with 0644 files and unlimited concurrency.
func New() *Writer {
	return &Writer{Perm: 0644}
}

// ValidateName rejects keys containing a path separator or "..".
func ValidateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return &PathTraversalError{Name: name}
	}
	return nil
}

// Write creates dir if needed and writes every artifact into it,
// overwriting existing files. All names are validated before anything is
// written, so a traversal attempt leaves the directory untouched. Writes
// then run concurrently; the first failure is returned as *WriteError and
// siblings that already completed are kept. The returned paths are sorted.
func (w *Writer) Write(ctx context.Context, set artifact.Set, dir string) ([]string, error) {
	names := set.Names()
	for _, name := range names {
		if err := ValidateName(name); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &WriteError{Path: dir, Err: err}
	}

	perm := w.Perm
	if perm == 0 {
		perm = 0644
	}
	logger := w.Logger
	if logger == nil {
		logger = log.Default()
	}

	g, ctx := errgroup.WithContext(ctx)
	if w.Concurrency > 0 {
		g.SetLimit(w.Concurrency)
	}

	paths := make([]string, len(names))
	for i, name := range names {
		path := filepath.Join(dir, name)
		paths[i] = path
		body := set[name]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return &WriteError{Path: path, Err: err}
			}
			if err := os.WriteFile(path, []byte(body), perm); err != nil {
				return &WriteError{Path: path, Err: err}
			}
			logger.Debug("wrote artifact", "path", path, "bytes", len(body))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
