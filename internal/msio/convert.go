package msio

import (
	"fmt"
	"math"

	"github.com/arloliu/mseed/errs"
	"github.com/arloliu/mseed/format"
)

// Convert reinterprets native-order sample bytes of type from and returns
// them converted to the target type, allocating a new buffer when the
// element width or representation changes. Conversion is strictly lossless:
// any sample whose value cannot be represented exactly in the target type
// fails with errs.ErrLossyConversion, and the input is left untouched.
//
// Converting to the native type is a no-op returning data unchanged.
func Convert(data []byte, from, target format.SampleType) ([]byte, format.SampleType, error) {
	if from == target || len(data) == 0 {
		return data, from, nil
	}

	switch {
	case from == format.SampleInt32 && target == format.SampleFloat32:
		src := Int32Slice(data)
		dst := make([]float32, len(src))
		for i, v := range src {
			f := float32(v)
			// float64 represents both int32 and float32 exactly, so this
			// equality holds iff no precision was lost.
			if float64(f) != float64(v) {
				return nil, from, lossyErr(i, "int32", "float32")
			}
			dst[i] = f
		}

		return float32Bytes(dst), target, nil

	case from == format.SampleInt32 && target == format.SampleFloat64:
		src := Int32Slice(data)
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v) // int32 is always exact in float64
		}

		return float64Bytes(dst), target, nil

	case from == format.SampleFloat32 && target == format.SampleInt32:
		src := Float32Slice(data)
		dst := make([]int32, len(src))
		for i, v := range src {
			f := float64(v)
			if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
				return nil, from, lossyErr(i, "float32", "int32")
			}
			dst[i] = int32(f)
		}

		return int32Bytes(dst), target, nil

	case from == format.SampleFloat32 && target == format.SampleFloat64:
		src := Float32Slice(data)
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v) // widening, always exact
		}

		return float64Bytes(dst), target, nil

	case from == format.SampleFloat64 && target == format.SampleInt32:
		src := Float64Slice(data)
		dst := make([]int32, len(src))
		for i, v := range src {
			if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
				return nil, from, lossyErr(i, "float64", "int32")
			}
			dst[i] = int32(v)
		}

		return int32Bytes(dst), target, nil

	case from == format.SampleFloat64 && target == format.SampleFloat32:
		src := Float64Slice(data)
		dst := make([]float32, len(src))
		for i, v := range src {
			f := float32(v)
			if float64(f) != v && !(math.IsNaN(v) && math.IsNaN(float64(f))) {
				return nil, from, lossyErr(i, "float64", "float32")
			}
			dst[i] = f
		}

		return float32Bytes(dst), target, nil

	default:
		return nil, from, fmt.Errorf("%w: cannot convert %v to %v",
			errs.ErrUnknownSampleType, from, target)
	}
}

func lossyErr(index int, from, to string) error {
	return fmt.Errorf("%w: sample %d not exactly representable as %s (from %s)",
		errs.ErrLossyConversion, index, to, from)
}
