package msio

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/arloliu/mseed/errs"
	"github.com/arloliu/mseed/internal/fileio"
)

// ReadOptions selects per-read behavior; the caller may change them between
// successive Next calls.
type ReadOptions struct {
	Unpack      bool // decode sample payloads
	ValidateCRC bool // verify the v3 record CRC-32C
	Verbose     bool // emit per-record debug logging
}

// Reader decodes MiniSEED records sequentially from one file. It owns the
// underlying file handle exclusively and reuses a single Record across
// reads: the *Record returned by Next is valid only until the next call.
//
// Reader is not safe for concurrent use.
type Reader struct {
	path   string
	rc     io.ReadCloser
	br     *bufio.Reader
	rec    Record
	buf    []byte // reusable raw record buffer
	offset int64  // byte offset of the next record in the decompressed stream
	last   bool   // set once the record just returned is the final one
	closed bool
	logger *zap.Logger
}

// Open opens path for sequential record decoding. Compressed files are
// decompressed transparently. logger may be nil.
func Open(path string, logger *zap.Logger) (*Reader, error) {
	rc, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reader{
		path:   path,
		rc:     rc,
		br:     bufio.NewReaderSize(rc, 128*1024),
		logger: logger,
	}, nil
}

// Path returns the file path the reader was opened with.
func (r *Reader) Path() string {
	return r.path
}

// Offset returns the byte offset of the next record in the decompressed
// stream.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Last reports whether the most recently returned record is the final one
// in the file.
func (r *Reader) Last() bool {
	return r.last
}

// Next decodes the next record. It returns io.EOF when the input is
// cleanly exhausted, or a *errs.DecodeError for malformed input. The
// returned Record is owned by the Reader and overwritten by the next call.
func (r *Reader) Next(opts ReadOptions) (*Record, error) {
	if r.closed {
		return nil, errs.NewDecodeError(errs.StatusGenError, "read record", r.offset, errs.ErrReaderClosed)
	}

	magic, err := r.br.Peek(3)
	if err != nil {
		if errors.Is(err, io.EOF) && len(magic) == 0 {
			return nil, io.EOF
		}

		if errors.Is(err, io.EOF) {
			// A 1-2 byte tail cannot be a record.
			return nil, errs.NewDecodeError(errs.StatusWrongLength, "read record", r.offset,
				fmt.Errorf("%w: %d trailing bytes", errs.ErrTruncatedRecord, len(magic)))
		}

		return nil, errs.NewDecodeError(errs.StatusGenError, "read record", r.offset, err)
	}

	recordStart := r.offset
	r.rec.reset()

	switch {
	case magic[0] == 'M' && magic[1] == 'S' && magic[2] == 3:
		r.buf, err = readV3(r.br, &r.rec, r.buf, opts.Unpack, opts.ValidateCRC)
	case v2HeaderPlausible0(magic[0]):
		r.buf, err = readV2(r.br, &r.rec, r.buf, opts.Unpack)
	default:
		err = fmt.Errorf("%w: unrecognized record signature % x", errs.ErrInvalidRecord, magic)
	}
	if err != nil {
		return nil, errs.NewDecodeError(statusFor(err), "read record", recordStart, err)
	}

	r.offset += int64(r.rec.RecordLength)
	if _, err := r.br.Peek(1); errors.Is(err, io.EOF) {
		r.last = true
	}

	if opts.Verbose {
		r.logger.Debug("decoded record",
			zap.String("sid", r.rec.SID),
			zap.Int64("offset", recordStart),
			zap.Int32("reclen", r.rec.RecordLength),
			zap.Int64("samples", r.rec.SampleCount),
			zap.Float64("rate", r.rec.SampleRate),
			zap.Bool("last", r.last),
		)
	}

	return &r.rec, nil
}

// Close releases the underlying file. It is idempotent; only the first call
// closes the handle.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	return r.rc.Close()
}

// v2HeaderPlausible0 is the cheap first-byte check used to route between
// format versions before the full header is read.
func v2HeaderPlausible0(c byte) bool {
	return (c >= '0' && c <= '9') || c == ' '
}

// statusFor maps decode sentinels onto the decoder status-code convention.
func statusFor(err error) errs.Status {
	switch {
	case errors.Is(err, errs.ErrCRCMismatch):
		return errs.StatusInvalidCRC
	case errors.Is(err, errs.ErrSteimCorrupt):
		return errs.StatusSteimBadFlag
	case errors.Is(err, errs.ErrUnsupportedEncoding):
		return errs.StatusUnknownFormat
	case errors.Is(err, errs.ErrTruncatedRecord):
		return errs.StatusWrongLength
	case errors.Is(err, errs.ErrInvalidRecord):
		return errs.StatusNotSEED
	default:
		return errs.StatusGenError
	}
}
