package mseed

import (
	"fmt"

	"github.com/arloliu/mseed/format"
	"github.com/arloliu/mseed/internal/msio"
	"github.com/arloliu/mseed/nstime"
)

// Segment is a maximal contiguous run of samples at one sample rate within
// a Channel, formed by merging time-contiguous records during Archive.Load.
// The sample payload is owned by the archive; the typed accessors hand out
// independently owned copies.
type Segment struct {
	seg *msio.TraceSeg
}

// StartTime returns the time of the first sample.
func (s *Segment) StartTime() nstime.Time {
	return s.seg.StartTime
}

// EndTime returns the time of the last sample.
func (s *Segment) EndTime() nstime.Time {
	return s.seg.EndTime
}

// SampleRate returns the sample rate in Hz.
func (s *Segment) SampleRate() float64 {
	return s.seg.SampleRate
}

// SampleCount returns the number of samples the merged records declare.
func (s *Segment) SampleCount() int64 {
	return s.seg.SampleCount
}

// NumSamples returns the number of samples actually unpacked.
func (s *Segment) NumSamples() int64 {
	return s.seg.NumSamples
}

// DataSize returns the unpacked payload size in bytes.
func (s *Segment) DataSize() int64 {
	return s.seg.DataSize()
}

// SampleType returns the native sample type tag, format.SampleUnknown for a
// metadata-only segment.
func (s *Segment) SampleType() format.SampleType {
	return s.seg.SampleType
}

// DataUnpacked reports whether the declared sample count was fully unpacked
// into the payload. It is false for segments scanned with unpacking
// disabled, and it gates every typed sample accessor: a metadata-only
// segment yields empty results rather than touching unallocated memory.
func (s *Segment) DataUnpacked() bool {
	return s.seg.SampleCount == s.seg.NumSamples && s.seg.DataSize() > 0
}

// Int32Samples returns the segment's samples as a freshly owned int32
// slice. A metadata-only segment yields (nil, nil). When the native sample
// type differs the payload is first converted in place under the
// lossless-only policy; a conversion that would lose precision fails with
// errs.ErrLossyConversion rather than being silently accepted.
func (s *Segment) Int32Samples() ([]int32, error) {
	return int32Samples(s.DataUnpacked(), s.seg.SampleType, &s.seg.Data, s.seg.ConvertSamples, s.seg.SampleCount)
}

// Float32Samples returns the segment's samples as a freshly owned float32
// slice, converting losslessly when the native type differs. See
// Int32Samples for the full contract.
func (s *Segment) Float32Samples() ([]float32, error) {
	return float32Samples(s.DataUnpacked(), s.seg.SampleType, &s.seg.Data, s.seg.ConvertSamples, s.seg.SampleCount)
}

// Float64Samples returns the segment's samples as a freshly owned float64
// slice, converting losslessly when the native type differs. See
// Int32Samples for the full contract.
func (s *Segment) Float64Samples() ([]float64, error) {
	return float64Samples(s.DataUnpacked(), s.seg.SampleType, &s.seg.Data, s.seg.ConvertSamples, s.seg.SampleCount)
}

// String renders a one-line segment summary.
func (s *Segment) String() string {
	return fmt.Sprintf("%s - %s, %g Hz, %d samples",
		s.seg.StartTime, s.seg.EndTime, s.seg.SampleRate, s.seg.SampleCount)
}
