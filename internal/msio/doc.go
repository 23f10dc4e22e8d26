// Package msio is the low-level MiniSEED decode engine behind the public
// object model. It owns every byte-level concern: record framing for the
// SEED 2.4 and FDSN miniSEED 3.0 formats, header byte-order detection,
// CRC-32C validation, payload unpacking (including Steim-1 and Steim-2
// decompression), lossless sample-type conversion, and the bulk
// record-to-trace-list merge.
//
// # Architecture
//
// The package mirrors the call contract of traditional MiniSEED decoder
// libraries:
//
//   - Reader.Next — decode the next record from an open file
//   - Reader.Close — release the file, exactly once
//   - ReadTraceList — one bulk parse merging records into per-channel,
//     time-ordered segments
//   - Record.ConvertSamples / TraceSeg.ConvertSamples — in-place sample
//     type conversion under a strict no-truncation policy
//
// Status codes follow the same convention (0 success, 1 end-of-file,
// negative failures) and are carried on errs.DecodeError so callers can
// surface the raw diagnostics.
//
// # Memory model
//
// Reader reuses one Record across calls to Next: every successful read
// overwrites the previous record's fields and buffers. The public layer is
// responsible for invalidating stale views; inside this package the rule is
// simply that a *Record returned by Next is valid until the next call on
// the same Reader.
//
// Unpacked samples are stored in native byte order so they can be
// reinterpreted as typed slices without copying. TraceSeg buffers are
// independent allocations owned by their TraceList.
package msio
