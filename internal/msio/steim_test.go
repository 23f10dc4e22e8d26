package msio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/mseed/errs"
)

// buildFrame assembles one 64-byte Steim frame from nibble/word pairs for
// words 1..15; unset words keep nibble 0.
func buildFrame(order binary.ByteOrder, words map[int]struct {
	nibble uint32
	word   uint32
},
) []byte {
	frame := make([]byte, steimFrameLen)
	var ctrl uint32
	for w, v := range words {
		ctrl |= v.nibble << uint(2*(15-w))
		order.PutUint32(frame[4*w:], v.word)
	}
	order.PutUint32(frame[0:], ctrl)

	return frame
}

type nw = struct {
	nibble uint32
	word   uint32
}

func TestDecodeSteim1(t *testing.T) {
	// Samples: 1000, 1005, 1002, 1012, 1312, 1012, 71012.
	// Differences: [ignored, 5, -3, 10] as int8s, [300, -300] as int16s,
	// [70000] as one int32.
	frame := buildFrame(binary.BigEndian, map[int]nw{
		1: {0, 1000},       // x0
		2: {0, 71012},      // xn
		3: {1, 0x0005FB0A}, // 0, 5, -3, 10
		4: {2, 0x012CFED4}, // 300, -300
		5: {3, 70000},
	})

	samples, err := decodeSteim1(frame, binary.BigEndian, 7)
	require.NoError(t, err)
	require.Equal(t, []int32{1000, 1005, 1002, 1012, 1312, 1012, 71012}, samples)
}

func TestDecodeSteim1_ReverseConstantMismatch(t *testing.T) {
	frame := buildFrame(binary.BigEndian, map[int]nw{
		1: {0, 1000},
		2: {0, 9999}, // wrong xn
		3: {1, 0x0005FB0A},
		4: {2, 0x012CFED4},
		5: {3, 70000},
	})

	_, err := decodeSteim1(frame, binary.BigEndian, 7)
	require.ErrorIs(t, err, errs.ErrSteimCorrupt)
}

func TestDecodeSteim1_TooFewDifferences(t *testing.T) {
	frame := buildFrame(binary.BigEndian, map[int]nw{
		1: {0, 1000},
		2: {0, 1012},
		3: {1, 0x0005FB0A},
	})

	_, err := decodeSteim1(frame, binary.BigEndian, 100)
	require.ErrorIs(t, err, errs.ErrSteimCorrupt)
}

func TestDecodeSteim1_BadPayloadLength(t *testing.T) {
	_, err := decodeSteim1(make([]byte, 63), binary.BigEndian, 1)
	require.ErrorIs(t, err, errs.ErrSteimCorrupt)

	_, err = decodeSteim1(nil, binary.BigEndian, 1)
	require.ErrorIs(t, err, errs.ErrSteimCorrupt)
}

func TestDecodeSteim2(t *testing.T) {
	// Differences: [ignored, 5] as two 15-bit, [1, -1, 2, -2, 3, -3] as six
	// 5-bit, [100, -100, 7] as three 10-bit. Eleven samples from x0 = -500.
	x0, xn := int32(-500), int32(-488)
	frame := buildFrame(binary.BigEndian, map[int]nw{
		1: {0, uint32(x0)}, // x0
		2: {0, uint32(xn)}, // xn
		3: {2, 0x80000005},
		4: {3, 0x43f1787d},
		5: {2, 0xc64e7007},
	})

	samples, err := decodeSteim2(frame, binary.BigEndian, 11)
	require.NoError(t, err)
	require.Equal(t,
		[]int32{-500, -495, -494, -495, -493, -495, -492, -495, -395, -495, -488},
		samples)
}

func TestDecodeSteim2_BadDnib(t *testing.T) {
	// Nibble 2 with dnib 0 is reserved.
	frame := buildFrame(binary.BigEndian, map[int]nw{
		1: {0, 0},
		2: {0, 0},
		3: {2, 0x00000005},
	})

	_, err := decodeSteim2(frame, binary.BigEndian, 2)
	require.ErrorIs(t, err, errs.ErrSteimCorrupt)
}

func TestDecodeSteim_MultiFrame(t *testing.T) {
	// Two frames: the first carries x0/xn and four 8-bit differences, the
	// second continues with two 16-bit differences.
	frame1 := buildFrame(binary.BigEndian, map[int]nw{
		1: {0, 10},         // x0
		2: {0, 318},        // xn
		3: {1, 0x01020304}, // 1, 2, 3, 4
	})
	frame2 := buildFrame(binary.BigEndian, map[int]nw{
		1: {2, 0x00C8FFFF}, // 200, -1
		2: {2, 0x00640000}, // 100, 0 (the trailing 0 is past the sample count)
	})
	payload := append(frame1, frame2...)

	samples, err := decodeSteim1(payload, binary.BigEndian, 7)
	require.NoError(t, err)
	require.Equal(t, []int32{10, 12, 15, 19, 219, 218, 318}, samples)
}

func TestReader_V3Steim1Record(t *testing.T) {
	frame := buildFrame(binary.BigEndian, map[int]nw{
		1: {0, 1000},
		2: {0, 71012},
		3: {1, 0x0005FB0A},
		4: {2, 0x012CFED4},
		5: {3, 70000},
	})
	rec := buildV3Record(v3RecordSpec{
		sid:  "FDSN:XX_TEST__B_H_Z",
		year: 2010, yday: 58,
		rate:     40.0,
		encoding: 10, // Steim-1
		payload:  frame,
		count:    7,
	})
	path := writeTestFile(t, rec)

	r, err := Open(path, nil)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Next(ReadOptions{Unpack: true, ValidateCRC: true})
	require.NoError(t, err)
	require.Equal(t, int64(7), got.NumSamples)
	require.Equal(t, []int32{1000, 1005, 1002, 1012, 1312, 1012, 71012}, Int32Slice(got.Data))
}

func TestSignExtend(t *testing.T) {
	require.Equal(t, int32(-1), signExtend(0x1F, 5))
	require.Equal(t, int32(15), signExtend(0x0F, 5))
	require.Equal(t, int32(-512), signExtend(0x200, 10))
	require.Equal(t, int32(511), signExtend(0x1FF, 10))
	require.Equal(t, int32(-1), signExtend(0x3FFFFFFF, 30))
}
