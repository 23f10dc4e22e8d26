package format

type (
	SampleType byte
	Encoding   uint8
	TimeFormat uint8
)

const (
	SampleUnknown SampleType = 0   // SampleUnknown marks a segment with no unpacked data.
	SampleInt32   SampleType = 'i' // SampleInt32 represents 32-bit signed integer samples.
	SampleFloat32 SampleType = 'f' // SampleFloat32 represents 32-bit IEEE float samples.
	SampleFloat64 SampleType = 'd' // SampleFloat64 represents 64-bit IEEE float samples.

	EncodingText    Encoding = 0  // EncodingText represents UTF-8 text payloads (not sample data).
	EncodingInt16   Encoding = 1  // EncodingInt16 represents uncompressed 16-bit integers.
	EncodingInt32   Encoding = 3  // EncodingInt32 represents uncompressed 32-bit integers.
	EncodingFloat32 Encoding = 4  // EncodingFloat32 represents uncompressed 32-bit IEEE floats.
	EncodingFloat64 Encoding = 5  // EncodingFloat64 represents uncompressed 64-bit IEEE floats.
	EncodingSteim1  Encoding = 10 // EncodingSteim1 represents Steim-1 compressed 32-bit integers.
	EncodingSteim2  Encoding = 11 // EncodingSteim2 represents Steim-2 compressed 32-bit integers.

	TimeFormatISOMonthDay TimeFormat = 0 // TimeFormatISOMonthDay renders 2010-02-27T06:50:00.069539Z.
	TimeFormatSEEDOrdinal TimeFormat = 1 // TimeFormatSEEDOrdinal renders 2010,058,06:50:00.069539.
	TimeFormatUnixEpoch   TimeFormat = 2 // TimeFormatUnixEpoch renders seconds since the Unix epoch.
	TimeFormatNanoEpoch   TimeFormat = 3 // TimeFormatNanoEpoch renders nanoseconds since the Unix epoch.
)

// Size returns the per-sample byte width, or 0 for SampleUnknown.
func (s SampleType) Size() int {
	switch s {
	case SampleInt32, SampleFloat32:
		return 4
	case SampleFloat64:
		return 8
	default:
		return 0
	}
}

// Valid reports whether s is one of the three sample types the format defines.
func (s SampleType) Valid() bool {
	return s == SampleInt32 || s == SampleFloat32 || s == SampleFloat64
}

func (s SampleType) String() string {
	switch s {
	case SampleInt32:
		return "int32"
	case SampleFloat32:
		return "float32"
	case SampleFloat64:
		return "float64"
	case SampleUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// SampleType returns the in-memory sample type produced by unpacking payloads
// with this encoding, or SampleUnknown for encodings that carry no samples.
func (e Encoding) SampleType() SampleType {
	switch e {
	case EncodingInt16, EncodingInt32, EncodingSteim1, EncodingSteim2:
		return SampleInt32
	case EncodingFloat32:
		return SampleFloat32
	case EncodingFloat64:
		return SampleFloat64
	default:
		return SampleUnknown
	}
}

// Supported reports whether the decoder can unpack payloads with this encoding.
func (e Encoding) Supported() bool {
	return e.SampleType() != SampleUnknown
}

func (e Encoding) String() string {
	switch e {
	case EncodingText:
		return "Text"
	case EncodingInt16:
		return "Int16"
	case EncodingInt32:
		return "Int32"
	case EncodingFloat32:
		return "Float32"
	case EncodingFloat64:
		return "Float64"
	case EncodingSteim1:
		return "Steim1"
	case EncodingSteim2:
		return "Steim2"
	default:
		return "Unknown"
	}
}

func (f TimeFormat) String() string {
	switch f {
	case TimeFormatISOMonthDay:
		return "ISOMonthDay"
	case TimeFormatSEEDOrdinal:
		return "SEEDOrdinal"
	case TimeFormatUnixEpoch:
		return "UnixEpoch"
	case TimeFormatNanoEpoch:
		return "NanoEpoch"
	default:
		return "Unknown"
	}
}
