//go:build cgo_zstd

package fileio

import (
	"io"

	"github.com/valyala/gozstd"
)

// newZstdReader wraps r in the libzstd-backed decompressor. Requires cgo and
// the cgo_zstd build tag; the default build uses the pure-Go implementation.
func newZstdReader(r io.Reader) (io.Reader, func() error, error) {
	zr := gozstd.NewReader(r)

	closer := func() error {
		zr.Release()
		return nil
	}

	return zr, closer, nil
}
