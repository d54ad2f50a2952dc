// Package datasource defines where raw dataset bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source yields a readable stream of raw dataset bytes. Implementations live
// in subpackages (local file, HTTP download).
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
