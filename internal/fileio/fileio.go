// Package fileio opens MiniSEED input files with transparent decompression.
//
// Archives are routinely stored gzip-, zstd-, lz4-, or s2/snappy-compressed;
// the decoder should not care. Open sniffs the leading magic bytes and wraps
// the file in the matching streaming decompressor, or passes a plain file
// through untouched. All byte offsets reported upstream refer to the
// decompressed stream.
package fileio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
)

// Compression magic bytes. Only framed formats with unambiguous leading
// magic are recognized; raw block formats cannot be sniffed.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	s2Magic   = []byte{0xff, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}
)

// readCloser pairs the decompressing reader with the resources it sits on.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc *readCloser) Close() error {
	var firstErr error
	for _, c := range rc.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	rc.closers = nil

	return firstErr
}

// Open opens path for reading, transparently decompressing gzip, zstd, lz4
// frame, and s2/snappy framed input. The returned ReadCloser must be closed
// exactly once; closing releases the underlying file and any decompressor
// state.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReaderSize(f, 64*1024)
	magic, err := br.Peek(len(s2Magic))
	if err != nil && err != io.EOF {
		f.Close()
		return nil, fmt.Errorf("sniff %s: %w", path, err)
	}

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}

		return &readCloser{Reader: gz, closers: []func() error{gz.Close, f.Close}}, nil

	case bytes.HasPrefix(magic, zstdMagic):
		zr, closer, err := newZstdReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open zstd %s: %w", path, err)
		}

		return &readCloser{Reader: zr, closers: []func() error{closer, f.Close}}, nil

	case bytes.HasPrefix(magic, lz4Magic):
		lr := lz4.NewReader(br)

		return &readCloser{Reader: lr, closers: []func() error{f.Close}}, nil

	case bytes.HasPrefix(magic, s2Magic):
		sr := s2.NewReader(br)

		return &readCloser{Reader: sr, closers: []func() error{f.Close}}, nil

	default:
		return &readCloser{Reader: br, closers: []func() error{f.Close}}, nil
	}
}
