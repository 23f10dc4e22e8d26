package mseed

import (
	"errors"
	"io"
	"iter"

	"github.com/arloliu/mseed/internal/msio"
	"github.com/arloliu/mseed/internal/options"
)

// Reader decodes MiniSEED records from one file, one at a time. It owns the
// underlying file exclusively; Close releases it and must be called exactly
// once regardless of how many records were read.
//
// Reader is a forward-only cursor: records come back in file order and the
// sequence cannot be restarted. The Record returned by ReadNext is a view
// over reader-owned memory, invalidated by the next ReadNext or Close.
//
// Reader is not safe for concurrent use.
type Reader struct {
	inner    *msio.Reader
	cfg      config
	gen      uint64 // increments on every successful read; stale views compare against it
	terminal bool   // set after EOF or a decode error; further reads return io.EOF
	closed   bool
}

// NewReader opens path for streaming record access. Defaults: payload
// unpacking enabled, CRC validation disabled, verbosity off.
func NewReader(path string, opts ...Option) (*Reader, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	inner, err := msio.Open(path, cfg.logger)
	if err != nil {
		return nil, err
	}

	return &Reader{inner: inner, cfg: cfg}, nil
}

// Path returns the file path the reader was opened with.
func (r *Reader) Path() string {
	return r.inner.Path()
}

// SetUnpackData changes the payload unpacking flag for subsequent reads.
// Records already read are unaffected.
func (r *Reader) SetUnpackData(unpack bool) {
	r.cfg.unpack = unpack
}

// SetValidateCRC changes the CRC validation flag for subsequent reads.
func (r *Reader) SetValidateCRC(validate bool) {
	r.cfg.validateCRC = validate
}

// SetVerbose changes the verbose logging flag for subsequent reads.
func (r *Reader) SetVerbose(verbose bool) {
	r.cfg.verbose = verbose
}

// ReadNext decodes the next record and returns a view over it. The view is
// valid until the next ReadNext or Close on this reader.
//
// ReadNext returns io.EOF when the file is exhausted. Any other failure is
// a *errs.DecodeError carrying the decoder status code; after a failure the
// reader is terminal and further calls return io.EOF. No retry is
// attempted.
func (r *Reader) ReadNext() (*Record, error) {
	if r.terminal || r.closed {
		return nil, io.EOF
	}

	// The decoder resets and overwrites the shared record buffer on every
	// attempt, successful or not, so outstanding views go stale the moment
	// the cursor advances.
	r.gen++

	rec, err := r.inner.Next(msio.ReadOptions{
		Unpack:      r.cfg.unpack,
		ValidateCRC: r.cfg.validateCRC,
		Verbose:     r.cfg.verbose,
	})
	if err != nil {
		r.terminal = true
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, err
	}

	return &Record{reader: r, gen: r.gen, rec: rec}, nil
}

// Records returns a lazy, finite, forward-only sequence of the remaining
// records. The sequence ends silently at end of file; a decode error is
// yielded as the final item with a nil record, never followed by further
// items. The sequence is not restartable: it continues from the reader's
// cursor and consumes it.
func (r *Reader) Records() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for {
			rec, err := r.ReadNext()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Close releases the underlying file. Close is idempotent; only the first
// call does work. A non-nil error means the underlying resource could not
// be released and the caller should treat it as fatal.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.terminal = true

	return r.inner.Close()
}
