package mseed

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/arloliu/mseed/format"
	"github.com/arloliu/mseed/internal/msio"
	"github.com/arloliu/mseed/nstime"
	"github.com/arloliu/mseed/sid"
)

// Record is a view over one decoded MiniSEED record. The underlying memory
// is owned by the producing Reader and reused on every read, so a Record is
// valid only until the next ReadNext (or Close) on that reader. Accessing a
// stale view panics instead of returning overwritten state.
type Record struct {
	reader *Reader
	gen    uint64
	rec    *msio.Record
}

// ensureValid panics if the view has been invalidated by a later read or by
// closing the reader.
func (r *Record) ensureValid() {
	if r.reader == nil || r.reader.closed || r.reader.gen != r.gen {
		panic("mseed: record view used after the next read or close on its reader")
	}
}

// SourceID returns the record's raw compact source identifier, e.g.
// "FDSN:IU_COLA_00_B_H_Z".
func (r *Record) SourceID() string {
	r.ensureValid()
	return r.rec.SID
}

// Identity parses the source identifier into network, station, location,
// and channel.
func (r *Record) Identity() (sid.Identity, error) {
	r.ensureValid()
	return sid.Parse(r.rec.SID)
}

// StartTime returns the time of the first sample as epoch nanoseconds.
func (r *Record) StartTime() nstime.Time {
	r.ensureValid()
	return r.rec.StartTime
}

// Time returns the time of the first sample as calendar time in UTC.
func (r *Record) Time() time.Time {
	r.ensureValid()
	return r.rec.StartTime.AsTime()
}

// TimeString renders the start time in the SEED ordinal-day form with
// subseconds, e.g. "2010,058,06:50:00.069539".
func (r *Record) TimeString() string {
	r.ensureValid()
	return r.rec.StartTime.Format(format.TimeFormatSEEDOrdinal, true)
}

// SampleCount returns the number of samples the record declares.
func (r *Record) SampleCount() int64 {
	r.ensureValid()
	return r.rec.SampleCount
}

// NumSamples returns the number of samples actually unpacked, 0 when the
// reader runs with unpacking disabled.
func (r *Record) NumSamples() int64 {
	r.ensureValid()
	return r.rec.NumSamples
}

// SampleRate returns the nominal sample rate in Hz, 0 for records that
// carry no time series.
func (r *Record) SampleRate() float64 {
	r.ensureValid()
	return r.rec.SampleRate
}

// FormatVersion returns the MiniSEED format version, 2 or 3.
func (r *Record) FormatVersion() uint8 {
	r.ensureValid()
	return r.rec.FormatVersion
}

// PubVersion returns the publication version. For v2 records it is derived
// from the quality indicator.
func (r *Record) PubVersion() uint8 {
	r.ensureValid()
	return r.rec.PubVersion
}

// RecordLength returns the total record length in bytes.
func (r *Record) RecordLength() int32 {
	r.ensureValid()
	return r.rec.RecordLength
}

// Encoding returns the payload encoding as stored in the file.
func (r *Record) Encoding() format.Encoding {
	r.ensureValid()
	return r.rec.Encoding
}

// Flags returns the record's flag bits (v3; zero for v2 records).
func (r *Record) Flags() uint8 {
	r.ensureValid()
	return r.rec.Flags
}

// SampleType returns the type tag of the unpacked samples, or
// format.SampleUnknown when no samples were unpacked.
func (r *Record) SampleType() format.SampleType {
	r.ensureValid()
	return r.rec.SampleType
}

// ExtraHeaders returns a copy of the record's raw extra-header JSON (v3
// only; nil when absent).
func (r *Record) ExtraHeaders() []byte {
	r.ensureValid()
	if len(r.rec.ExtraHeaders) == 0 {
		return nil
	}

	return append([]byte(nil), r.rec.ExtraHeaders...)
}

// ExtraHeadersMap decodes the extra-header JSON into a map. Records without
// extra headers yield an empty map.
func (r *Record) ExtraHeadersMap() (map[string]any, error) {
	r.ensureValid()
	if len(r.rec.ExtraHeaders) == 0 {
		return map[string]any{}, nil
	}

	var m map[string]any
	if err := json.Unmarshal(r.rec.ExtraHeaders, &m); err != nil {
		return nil, fmt.Errorf("decode extra headers: %w", err)
	}

	return m, nil
}

// DataUnpacked reports whether every declared sample was unpacked. It gates
// the typed sample accessors.
func (r *Record) DataUnpacked() bool {
	r.ensureValid()
	return r.rec.DataUnpacked()
}

// Int32Samples returns the record's samples as a freshly owned int32 slice.
// See Segment.Int32Samples for the conversion contract.
func (r *Record) Int32Samples() ([]int32, error) {
	r.ensureValid()
	return int32Samples(r.rec.DataUnpacked(), r.rec.SampleType, &r.rec.Data, r.rec.ConvertSamples, r.rec.SampleCount)
}

// Float32Samples returns the record's samples as a freshly owned float32
// slice. See Segment.Float32Samples for the conversion contract.
func (r *Record) Float32Samples() ([]float32, error) {
	r.ensureValid()
	return float32Samples(r.rec.DataUnpacked(), r.rec.SampleType, &r.rec.Data, r.rec.ConvertSamples, r.rec.SampleCount)
}

// Float64Samples returns the record's samples as a freshly owned float64
// slice. See Segment.Float64Samples for the conversion contract.
func (r *Record) Float64Samples() ([]float64, error) {
	r.ensureValid()
	return float64Samples(r.rec.DataUnpacked(), r.rec.SampleType, &r.rec.Data, r.rec.ConvertSamples, r.rec.SampleCount)
}

// String renders the record's composite one-line display: identifier,
// publication version, record length, sample count, sample rate, and start
// time.
func (r *Record) String() string {
	r.ensureValid()

	return fmt.Sprintf("%s, %d, %d, %d samples, %g Hz, %s",
		r.rec.SID, r.rec.PubVersion, r.rec.RecordLength,
		r.rec.SampleCount, r.rec.SampleRate, r.TimeString())
}
