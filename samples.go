package mseed

import (
	"github.com/arloliu/mseed/format"
	"github.com/arloliu/mseed/internal/msio"
)

// The typed sample accessors on Record and Segment share one contract:
//
//  1. a never-unpacked payload yields (nil, nil) immediately;
//  2. a native type other than the requested one is converted in place
//     under the lossless-only policy, and a conversion that would lose
//     precision fails;
//  3. the native-order payload is reinterpreted as the requested element
//     type and copied into a fresh slice, so the result's lifetime is
//     decoupled from the reader or archive that owns the payload.
//
// The format guarantees exactly three sample types; any other tag on an
// unpacked payload is a contract breach and panics.

func checkSampleType(st format.SampleType) {
	switch st {
	case format.SampleInt32, format.SampleFloat32, format.SampleFloat64:
	default:
		panic("mseed: unknown sample type tag " + string(rune(st)))
	}
}

func int32Samples(unpacked bool, st format.SampleType, data *[]byte, convert func(format.SampleType) error, count int64) ([]int32, error) {
	if !unpacked {
		return nil, nil
	}
	checkSampleType(st)

	if st != format.SampleInt32 {
		if err := convert(format.SampleInt32); err != nil {
			return nil, err
		}
	}

	out := make([]int32, count)
	copy(out, msio.Int32Slice(*data))

	return out, nil
}

func float32Samples(unpacked bool, st format.SampleType, data *[]byte, convert func(format.SampleType) error, count int64) ([]float32, error) {
	if !unpacked {
		return nil, nil
	}
	checkSampleType(st)

	if st != format.SampleFloat32 {
		if err := convert(format.SampleFloat32); err != nil {
			return nil, err
		}
	}

	out := make([]float32, count)
	copy(out, msio.Float32Slice(*data))

	return out, nil
}

func float64Samples(unpacked bool, st format.SampleType, data *[]byte, convert func(format.SampleType) error, count int64) ([]float64, error) {
	if !unpacked {
		return nil, nil
	}
	checkSampleType(st)

	if st != format.SampleFloat64 {
		if err := convert(format.SampleFloat64); err != nil {
			return nil, err
		}
	}

	out := make([]float64, count)
	copy(out, msio.Float64Slice(*data))

	return out, nil
}
