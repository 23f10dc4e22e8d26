package msio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arloliu/mseed/errs"
	"github.com/arloliu/mseed/format"
)

// unpackSamples decodes a record's data payload into native-order sample
// bytes. order is the byte order of the payload's multi-byte fields; Steim
// frames ignore it in v3 (always big-endian) but honor the v2 word order,
// which callers pass through here.
//
// Returns the sample bytes, the sample type, and the number of samples
// decoded, which always equals sampleCount on success.
func unpackSamples(enc format.Encoding, payload []byte, order binary.ByteOrder, sampleCount int) ([]byte, format.SampleType, int, error) {
	if sampleCount <= 0 {
		return nil, format.SampleUnknown, 0, nil
	}

	switch enc {
	case format.EncodingInt16:
		if len(payload) < sampleCount*2 {
			return nil, format.SampleUnknown, 0, truncatedErr(enc, len(payload), sampleCount*2)
		}
		samples := make([]int32, sampleCount)
		for i := range samples {
			samples[i] = int32(int16(order.Uint16(payload[i*2:])))
		}

		return int32Bytes(samples), format.SampleInt32, sampleCount, nil

	case format.EncodingInt32:
		if len(payload) < sampleCount*4 {
			return nil, format.SampleUnknown, 0, truncatedErr(enc, len(payload), sampleCount*4)
		}
		samples := make([]int32, sampleCount)
		for i := range samples {
			samples[i] = int32(order.Uint32(payload[i*4:]))
		}

		return int32Bytes(samples), format.SampleInt32, sampleCount, nil

	case format.EncodingFloat32:
		if len(payload) < sampleCount*4 {
			return nil, format.SampleUnknown, 0, truncatedErr(enc, len(payload), sampleCount*4)
		}
		samples := make([]float32, sampleCount)
		for i := range samples {
			samples[i] = math.Float32frombits(order.Uint32(payload[i*4:]))
		}

		return float32Bytes(samples), format.SampleFloat32, sampleCount, nil

	case format.EncodingFloat64:
		if len(payload) < sampleCount*8 {
			return nil, format.SampleUnknown, 0, truncatedErr(enc, len(payload), sampleCount*8)
		}
		samples := make([]float64, sampleCount)
		for i := range samples {
			samples[i] = math.Float64frombits(order.Uint64(payload[i*8:]))
		}

		return float64Bytes(samples), format.SampleFloat64, sampleCount, nil

	case format.EncodingSteim1:
		samples, err := decodeSteim1(payload, order, sampleCount)
		if err != nil {
			return nil, format.SampleUnknown, 0, err
		}

		return int32Bytes(samples), format.SampleInt32, sampleCount, nil

	case format.EncodingSteim2:
		samples, err := decodeSteim2(payload, order, sampleCount)
		if err != nil {
			return nil, format.SampleUnknown, 0, err
		}

		return int32Bytes(samples), format.SampleInt32, sampleCount, nil

	default:
		return nil, format.SampleUnknown, 0,
			fmt.Errorf("%w: encoding %d (%s)", errs.ErrUnsupportedEncoding, int(enc), enc)
	}
}

func truncatedErr(enc format.Encoding, have, want int) error {
	return fmt.Errorf("%w: %s payload has %d bytes, need %d", errs.ErrTruncatedRecord, enc, have, want)
}
