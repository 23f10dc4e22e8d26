// Package errs defines the sentinel errors, status codes, and the structured
// decode error shared by all mseed packages.
//
// Sentinels classify failures so callers can branch with errors.Is; the
// DecodeError type additionally carries the decoder status code and the byte
// offset of the failing record for callers that need the raw diagnostics.
package errs

import (
	"errors"
	"fmt"
	"io"
)

// Status mirrors the return-code convention of traditional MiniSEED decoder
// libraries: 0 is success, 1 is end-of-file, negative values are failures.
type Status int

const (
	StatusNoError       Status = 0  // StatusNoError reports a successful operation.
	StatusEndOfFile     Status = 1  // StatusEndOfFile reports orderly input exhaustion.
	StatusGenError      Status = -1 // StatusGenError reports an unclassified failure.
	StatusNotSEED       Status = -2 // StatusNotSEED reports data that is not a MiniSEED record.
	StatusWrongLength   Status = -3 // StatusWrongLength reports a short or oversized record.
	StatusOutOfRange    Status = -4 // StatusOutOfRange reports a header field outside its legal range.
	StatusUnknownFormat Status = -5 // StatusUnknownFormat reports an unsupported version or encoding.
	StatusSteimBadFlag  Status = -6 // StatusSteimBadFlag reports a corrupt Steim compression frame.
	StatusInvalidCRC    Status = -7 // StatusInvalidCRC reports a record checksum mismatch.
)

func (s Status) String() string {
	switch s {
	case StatusNoError:
		return "no error"
	case StatusEndOfFile:
		return "end of file"
	case StatusGenError:
		return "general error"
	case StatusNotSEED:
		return "not SEED data"
	case StatusWrongLength:
		return "wrong record length"
	case StatusOutOfRange:
		return "value out of range"
	case StatusUnknownFormat:
		return "unknown format"
	case StatusSteimBadFlag:
		return "bad Steim compression flag"
	case StatusInvalidCRC:
		return "invalid CRC"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

var (
	// ErrInvalidRecord indicates bytes that do not form a MiniSEED record.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrTruncatedRecord indicates a record cut short by the end of input.
	ErrTruncatedRecord = errors.New("truncated record")
	// ErrUnsupportedEncoding indicates a payload encoding the decoder cannot unpack.
	ErrUnsupportedEncoding = errors.New("unsupported data encoding")
	// ErrCRCMismatch indicates a record whose stored CRC does not match its content.
	ErrCRCMismatch = errors.New("CRC mismatch")
	// ErrSteimCorrupt indicates a Steim frame with inconsistent nibbles or constants.
	ErrSteimCorrupt = errors.New("corrupt Steim frame")
	// ErrInvalidSourceID indicates a source identifier that cannot be decomposed.
	ErrInvalidSourceID = errors.New("invalid source identifier")
	// ErrLossyConversion indicates a sample conversion that would lose precision.
	ErrLossyConversion = errors.New("conversion would lose precision")
	// ErrUnknownSampleType indicates a sample-type tag outside {'i','f','d'}.
	ErrUnknownSampleType = errors.New("unknown sample type")
	// ErrArchiveNotLoaded indicates accessor use before a successful Load.
	ErrArchiveNotLoaded = errors.New("trace archive not loaded")
	// ErrReaderClosed indicates a read attempted after Close.
	ErrReaderClosed = errors.New("reader is closed")
)

// DecodeError reports a failed decode operation together with the status code
// a caller would have received from the underlying decoder convention.
type DecodeError struct {
	Status Status // decoder status code, always negative
	Op     string // failing operation, e.g. "read record"
	Offset int64  // byte offset of the record being decoded
	Err    error  // underlying cause, wraps one of the sentinels above
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mseed: %s at offset %d: %v (status %d)", e.Op, e.Offset, e.Err, int(e.Status))
	}

	return fmt.Sprintf("mseed: %s at offset %d: %s (status %d)", e.Op, e.Offset, e.Status, int(e.Status))
}

// Unwrap returns the underlying cause so errors.Is sees through to sentinels.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError wraps err as a DecodeError for the given operation and offset.
func NewDecodeError(status Status, op string, offset int64, err error) *DecodeError {
	return &DecodeError{Status: status, Op: op, Offset: offset, Err: err}
}

// StatusOf extracts the decoder status from err: nil maps to StatusNoError,
// io.EOF to StatusEndOfFile, a wrapped DecodeError to its own status, and
// anything else to StatusGenError.
func StatusOf(err error) Status {
	if err == nil {
		return StatusNoError
	}
	if errors.Is(err, io.EOF) {
		return StatusEndOfFile
	}

	var de *DecodeError
	if errors.As(err, &de) {
		return de.Status
	}

	return StatusGenError
}
