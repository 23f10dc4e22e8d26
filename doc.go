// Package mseed provides structured, safe access to MiniSEED seismic
// waveform archives: binary containers bundling timestamped sample runs per
// sensor channel into discrete records.
//
// # Overview
//
// The package offers two reading models:
//
//   - Streaming: Reader decodes one record at a time, yielding ephemeral
//     Record views. Use this for record-level inspection or when the file
//     is too large to hold decoded.
//   - Bulk: Archive parses a whole file once and merges records into
//     per-channel, time-ordered Segments with typed sample access. Use
//     this for whole-file analysis.
//
// Both models decode SEED 2.4 and FDSN miniSEED 3.0 records, transparently
// decompress gzip/zstd/lz4/s2 wrapped files, and expose identity parsing
// (package sid) and epoch-nanosecond time conversion (package nstime).
//
// # Streaming
//
//	reader, err := mseed.NewReader("multiple.seed")
//	if err != nil {
//	    return err
//	}
//	defer reader.Close()
//
//	for rec, err := range reader.Records() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Printf("%v %d\n", rec, rec.SampleCount())
//	}
//
// A Record is a view over reader-owned memory: it is valid only until the
// next ReadNext call (or Close) on the same reader, and using a stale view
// panics rather than reading overwritten state.
//
// # Bulk
//
//	archive, err := mseed.ReadArchive("multiple.seed")
//	if err != nil {
//	    return err
//	}
//
//	for ch := range archive.Channels() {
//	    for seg := range ch.Segments() {
//	        samples, err := seg.Int32Samples()
//	        ...
//	    }
//	}
//
// Typed sample accessors return freshly owned slices; requesting a type
// other than the segment's native one performs a checked conversion that
// fails rather than silently losing precision.
//
// # Error model
//
// Orderly end of input is io.EOF and simply ends iteration. Malformed
// input surfaces as *errs.DecodeError carrying the decoder status code.
// Contract breaches — stale Record views, accessors on an unloaded
// Archive, an unknown sample-type tag — panic, because continuing would
// risk reading invalid state.
//
// Readers and archives are single-owner, single-goroutine objects; see the
// type documentation for the exact lifetime rules.
package mseed
