package msio

import (
	"unsafe"

	"github.com/arloliu/mseed/format"
	"github.com/arloliu/mseed/nstime"
)

// Record is the decoded form of one MiniSEED record. A Reader reuses one
// Record across reads, so all fields and buffers are valid only until the
// next call to Next on the producing Reader.
type Record struct {
	SID           string          // source identifier, e.g. "FDSN:XX_TEST__L_H_Z"
	FormatVersion uint8           // 2 or 3
	Flags         uint8           // v3 flag bits; zero for v2 records
	StartTime     nstime.Time     // time of the first sample
	SampleRate    float64         // samples per second, 0 for non-time-series data
	Encoding      format.Encoding // payload encoding as stored in the file
	PubVersion    uint8           // publication version (v2: derived from quality code)
	SampleCount   int64           // declared number of samples
	CRC           uint32          // stored CRC-32C (v3 only, 0 for v2)
	RecordLength  int32           // total record length in bytes
	ExtraHeaders  []byte          // raw JSON extra headers (v3 only)

	SampleType format.SampleType // type of unpacked samples, SampleUnknown if not unpacked
	NumSamples int64             // number of samples actually unpacked
	Data       []byte            // unpacked samples in native byte order
}

// reset clears per-record state before the next decode, retaining allocated
// buffers for reuse.
func (r *Record) reset() {
	r.SID = ""
	r.FormatVersion = 0
	r.Flags = 0
	r.StartTime = 0
	r.SampleRate = 0
	r.Encoding = 0
	r.PubVersion = 0
	r.SampleCount = 0
	r.CRC = 0
	r.RecordLength = 0
	r.ExtraHeaders = r.ExtraHeaders[:0]
	r.SampleType = format.SampleUnknown
	r.NumSamples = 0
	r.Data = r.Data[:0]
}

// EndTime returns the time of the last sample, or the start time when the
// record carries no time series.
func (r *Record) EndTime() nstime.Time {
	if r.SampleRate <= 0 || r.SampleCount <= 0 {
		return r.StartTime
	}

	return r.StartTime + nstime.Time(float64(r.SampleCount-1)*1e9/r.SampleRate)
}

// DataUnpacked reports whether every declared sample was unpacked into Data.
func (r *Record) DataUnpacked() bool {
	return r.SampleCount > 0 && r.SampleCount == r.NumSamples && len(r.Data) > 0
}

// ConvertSamples converts the unpacked samples in place to the target type.
// Conversions that would lose precision fail; see Convert.
func (r *Record) ConvertSamples(target format.SampleType) error {
	data, st, err := Convert(r.Data, r.SampleType, target)
	if err != nil {
		return err
	}
	r.Data = data
	r.SampleType = st

	return nil
}

// Int32Slice reinterprets native-order sample bytes as int32 values without
// copying. The result aliases data; len(data) must be a multiple of 4.
func Int32Slice(data []byte) []int32 {
	if len(data) < 4 {
		return nil
	}

	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), len(data)/4)
}

// Float32Slice reinterprets native-order sample bytes as float32 values
// without copying. The result aliases data.
func Float32Slice(data []byte) []float32 {
	if len(data) < 4 {
		return nil
	}

	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), len(data)/4)
}

// Float64Slice reinterprets native-order sample bytes as float64 values
// without copying. The result aliases data.
func Float64Slice(data []byte) []float64 {
	if len(data) < 8 {
		return nil
	}

	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), len(data)/8)
}

// int32Bytes exposes an int32 slice as its native-order byte representation
// without copying. The result aliases samples.
func int32Bytes(samples []int32) []byte {
	if len(samples) == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*4)
}

// float32Bytes exposes a float32 slice as its native-order bytes.
func float32Bytes(samples []float32) []byte {
	if len(samples) == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*4)
}

// float64Bytes exposes a float64 slice as its native-order bytes.
func float64Bytes(samples []float64) []byte {
	if len(samples) == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*8)
}
