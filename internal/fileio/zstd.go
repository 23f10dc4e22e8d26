//go:build !cgo_zstd

package fileio

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// newZstdReader wraps r in the pure-Go zstd decompressor. The cgo_zstd build
// tag swaps in the libzstd-backed implementation.
func newZstdReader(r io.Reader) (io.Reader, func() error, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, nil, err
	}

	closer := func() error {
		zr.Close()
		return nil
	}

	return zr, closer, nil
}
