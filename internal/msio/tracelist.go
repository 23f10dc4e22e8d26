package msio

import (
	"errors"
	"io"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/mseed/format"
	"github.com/arloliu/mseed/internal/hash"
	"github.com/arloliu/mseed/nstime"
)

// sampleRateTolerance is the relative difference below which two sample
// rates are considered equal when merging records.
const sampleRateTolerance = 1e-10

// TraceOptions configures a bulk parse.
type TraceOptions struct {
	Unpack        bool          // decode sample payloads
	ValidateCRC   bool          // verify v3 record CRCs
	Verbose       bool          // per-record debug logging
	TimeTolerance time.Duration // gap tolerance for segment merging; 0 means half a sample period
	SplitVersion  bool          // keep publication versions in separate entries
	Logger        *zap.Logger
}

// TraceSeg is one contiguous run of samples at a fixed rate within a
// channel. Data holds the unpacked samples in native byte order and is
// owned by the TraceList.
type TraceSeg struct {
	StartTime   nstime.Time
	EndTime     nstime.Time
	SampleRate  float64
	SampleCount int64 // declared samples across the merged records
	NumSamples  int64 // samples actually unpacked
	SampleType  format.SampleType
	Data        []byte
}

// DataSize returns the payload size in bytes.
func (s *TraceSeg) DataSize() int64 {
	return int64(len(s.Data))
}

// ConvertSamples converts the segment's samples in place to the target
// type under the lossless-only policy.
func (s *TraceSeg) ConvertSamples(target format.SampleType) error {
	data, st, err := Convert(s.Data, s.SampleType, target)
	if err != nil {
		return err
	}
	s.Data = data
	s.SampleType = st

	return nil
}

// TraceEntry groups all segments of one source identifier (and, when
// splitting by version, one publication version).
type TraceEntry struct {
	SID        string
	PubVersion uint8
	Earliest   nstime.Time
	Latest     nstime.Time
	Segs       []*TraceSeg // ascending start-time order
}

// TraceList is the result of one bulk parse: entries in first-discovery
// order with an xxHash64 index for direct lookup.
type TraceList struct {
	Entries []*TraceEntry
	index   map[uint64][]*TraceEntry
}

// Lookup returns the entry for the given source identifier, or nil. When
// the list was built with SplitVersion the entry with the highest
// publication version is returned.
func (tl *TraceList) Lookup(sidStr string) *TraceEntry {
	var best *TraceEntry
	for _, e := range tl.index[hash.ID(sidStr)] {
		if e.SID != sidStr {
			continue // hash collision
		}
		if best == nil || e.PubVersion > best.PubVersion {
			best = e
		}
	}

	return best
}

// ReadTraceList performs one bulk parse of path, merging records that share
// a source identifier, a compatible sample rate, and time-contiguity into
// per-channel, time-ordered segments. A decode failure aborts the parse and
// returns the error; the partial list must not be used.
func ReadTraceList(path string, opts TraceOptions) (*TraceList, error) {
	r, err := Open(path, opts.Logger)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	tl := &TraceList{index: make(map[uint64][]*TraceEntry)}
	readOpts := ReadOptions{Unpack: opts.Unpack, ValidateCRC: opts.ValidateCRC, Verbose: opts.Verbose}

	for {
		rec, err := r.Next(readOpts)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		tl.add(rec, opts)
	}

	return tl, nil
}

// add merges one record into the list.
func (tl *TraceList) add(rec *Record, opts TraceOptions) {
	entry := tl.findEntry(rec, opts.SplitVersion)
	if entry == nil {
		entry = &TraceEntry{SID: rec.SID, PubVersion: rec.PubVersion, Earliest: rec.StartTime, Latest: rec.EndTime()}
		tl.Entries = append(tl.Entries, entry)
		key := hash.ID(rec.SID)
		tl.index[key] = append(tl.index[key], entry)
	}

	// Without version splitting the highest publication version wins.
	if !opts.SplitVersion && rec.PubVersion > entry.PubVersion {
		entry.PubVersion = rec.PubVersion
	}
	if rec.StartTime < entry.Earliest {
		entry.Earliest = rec.StartTime
	}
	if end := rec.EndTime(); end > entry.Latest {
		entry.Latest = end
	}

	entry.mergeRecord(rec, opts.TimeTolerance)
}

// findEntry locates the existing entry a record belongs to, honoring the
// split-by-version policy, or returns nil.
func (tl *TraceList) findEntry(rec *Record, splitVersion bool) *TraceEntry {
	for _, e := range tl.index[hash.ID(rec.SID)] {
		if e.SID != rec.SID {
			continue
		}
		if splitVersion && e.PubVersion != rec.PubVersion {
			continue
		}

		return e
	}

	return nil
}

// mergeRecord attaches a record's samples to a time-contiguous segment, or
// inserts a new segment in ascending start-time order.
func (e *TraceEntry) mergeRecord(rec *Record, tolerance time.Duration) {
	period := nstime.Time(0)
	if rec.SampleRate > 0 {
		period = nstime.Time(1e9 / rec.SampleRate)
	}

	tol := nstime.Time(tolerance)
	if tolerance == 0 {
		tol = period / 2
	}

	recEnd := rec.EndTime()
	for _, seg := range e.Segs {
		if !ratesMatch(seg.SampleRate, rec.SampleRate) || seg.SampleType != rec.SampleType {
			continue
		}

		// Record continues the segment.
		if absTime(rec.StartTime-(seg.EndTime+period)) <= tol {
			seg.Data = append(seg.Data, rec.Data...)
			seg.SampleCount += rec.SampleCount
			seg.NumSamples += rec.NumSamples
			seg.EndTime = recEnd

			return
		}

		// Record precedes the segment.
		if absTime(seg.StartTime-(recEnd+period)) <= tol {
			data := make([]byte, 0, len(rec.Data)+len(seg.Data))
			data = append(data, rec.Data...)
			seg.Data = append(data, seg.Data...)
			seg.SampleCount += rec.SampleCount
			seg.NumSamples += rec.NumSamples
			seg.StartTime = rec.StartTime

			return
		}
	}

	seg := &TraceSeg{
		StartTime:   rec.StartTime,
		EndTime:     recEnd,
		SampleRate:  rec.SampleRate,
		SampleCount: rec.SampleCount,
		NumSamples:  rec.NumSamples,
		SampleType:  rec.SampleType,
		Data:        append([]byte(nil), rec.Data...),
	}

	// Insert preserving ascending start-time order.
	pos := len(e.Segs)
	for i, s := range e.Segs {
		if seg.StartTime < s.StartTime {
			pos = i
			break
		}
	}
	e.Segs = append(e.Segs, nil)
	copy(e.Segs[pos+1:], e.Segs[pos:])
	e.Segs[pos] = seg
}

func ratesMatch(a, b float64) bool {
	if a == b {
		return true
	}
	larger := math.Max(math.Abs(a), math.Abs(b))

	return math.Abs(a-b) <= larger*sampleRateTolerance
}

func absTime(t nstime.Time) nstime.Time {
	if t < 0 {
		return -t
	}

	return t
}
