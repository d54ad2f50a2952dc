// Package file implements a local filesystem-backed data source for dataset
// files.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local is a data source that reads a dataset file from local disk.
type Local struct{ path string }

// NewLocal returns a Local source bound to path. The value is safe for
// concurrent use; each Open returns an independent file handle.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the configured filesystem path.
func (l *Local) Path() string { return l.path }

// Open opens the dataset file for reading.
//
// A context that is already canceled fails fast without touching the
// filesystem. Filesystem errors are wrapped with the path but remain
// compatible with errors.Is (e.g. os.ErrNotExist). On platforms that support
// it, the kernel is advised that the file will be read sequentially; dataset
// scans are single front-to-back passes.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	adviseSequential(f)
	return f, nil
}
