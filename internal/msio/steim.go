package msio

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/mseed/errs"
)

// Steim frames are 64 bytes: a control word of sixteen 2-bit nibbles
// followed by fifteen data words. The first frame additionally carries the
// forward (x0) and reverse (xn) integration constants in words 1 and 2.
const steimFrameLen = 64

// decodeSteim1 expands a Steim-1 compressed payload into sampleCount int32
// samples. order is the byte order of the frame words (big-endian in every
// conforming file, but v2 word order is honored).
func decodeSteim1(payload []byte, order binary.ByteOrder, sampleCount int) ([]int32, error) {
	diffs, x0, xn, err := steimDiffs(payload, order, sampleCount, steim1Word)
	if err != nil {
		return nil, err
	}

	return integrateDiffs(diffs, x0, xn, sampleCount)
}

// decodeSteim2 expands a Steim-2 compressed payload into sampleCount int32
// samples.
func decodeSteim2(payload []byte, order binary.ByteOrder, sampleCount int) ([]int32, error) {
	diffs, x0, xn, err := steimDiffs(payload, order, sampleCount, steim2Word)
	if err != nil {
		return nil, err
	}

	return integrateDiffs(diffs, x0, xn, sampleCount)
}

// steimDiffs walks the frames and collects first differences using the
// per-word expansion function of the Steim variant.
func steimDiffs(payload []byte, order binary.ByteOrder, sampleCount int,
	expand func(nibble uint32, word uint32, diffs []int32) ([]int32, error),
) (diffs []int32, x0, xn int32, err error) {
	if len(payload) < steimFrameLen || len(payload)%steimFrameLen != 0 {
		return nil, 0, 0, fmt.Errorf("%w: payload length %d is not a positive multiple of %d",
			errs.ErrSteimCorrupt, len(payload), steimFrameLen)
	}

	diffs = make([]int32, 0, sampleCount)
	numFrames := len(payload) / steimFrameLen

	for frame := 0; frame < numFrames && len(diffs) < sampleCount; frame++ {
		base := frame * steimFrameLen
		ctrl := order.Uint32(payload[base:])

		for w := 1; w < 16; w++ {
			nibble := (ctrl >> uint(2*(15-w))) & 0x3
			word := order.Uint32(payload[base+4*w:])

			// Words 1 and 2 of the first frame are the integration
			// constants, flagged with nibble 0.
			if frame == 0 && w == 1 {
				if nibble != 0 {
					return nil, 0, 0, fmt.Errorf("%w: x0 word has nibble %d", errs.ErrSteimCorrupt, nibble)
				}
				x0 = int32(word)
				continue
			}
			if frame == 0 && w == 2 {
				if nibble != 0 {
					return nil, 0, 0, fmt.Errorf("%w: xn word has nibble %d", errs.ErrSteimCorrupt, nibble)
				}
				xn = int32(word)
				continue
			}

			if nibble == 0 {
				continue // non-data word
			}

			diffs, err = expand(nibble, word, diffs)
			if err != nil {
				return nil, 0, 0, err
			}
			if len(diffs) >= sampleCount {
				break
			}
		}
	}

	if len(diffs) < sampleCount {
		return nil, 0, 0, fmt.Errorf("%w: %d differences decoded, %d samples declared",
			errs.ErrSteimCorrupt, len(diffs), sampleCount)
	}

	return diffs[:sampleCount], x0, xn, nil
}

// steim1Word expands one Steim-1 data word: nibble 1 holds four 8-bit
// differences, 2 holds two 16-bit, 3 holds one 32-bit.
func steim1Word(nibble uint32, word uint32, diffs []int32) ([]int32, error) {
	switch nibble {
	case 1:
		diffs = append(diffs,
			int32(int8(word>>24)), int32(int8(word>>16)),
			int32(int8(word>>8)), int32(int8(word)))
	case 2:
		diffs = append(diffs, int32(int16(word>>16)), int32(int16(word)))
	case 3:
		diffs = append(diffs, int32(word))
	}

	return diffs, nil
}

// steim2Word expands one Steim-2 data word. Nibble 1 matches Steim-1;
// nibbles 2 and 3 select a sub-code (dnib) from the word's top two bits
// choosing among 30/15/10-bit and 6/5/4-bit difference packings.
func steim2Word(nibble uint32, word uint32, diffs []int32) ([]int32, error) {
	switch nibble {
	case 1:
		diffs = append(diffs,
			int32(int8(word>>24)), int32(int8(word>>16)),
			int32(int8(word>>8)), int32(int8(word)))

	case 2:
		switch dnib := word >> 30; dnib {
		case 1: // one 30-bit difference
			diffs = append(diffs, signExtend(word, 30))
		case 2: // two 15-bit differences
			diffs = append(diffs, signExtend(word>>15, 15), signExtend(word, 15))
		case 3: // three 10-bit differences
			diffs = append(diffs, signExtend(word>>20, 10), signExtend(word>>10, 10), signExtend(word, 10))
		default:
			return diffs, fmt.Errorf("%w: nibble 2 with dnib 0", errs.ErrSteimCorrupt)
		}

	case 3:
		switch dnib := word >> 30; dnib {
		case 0: // five 6-bit differences
			for shift := 24; shift >= 0; shift -= 6 {
				diffs = append(diffs, signExtend(word>>uint(shift), 6))
			}
		case 1: // six 5-bit differences
			for shift := 25; shift >= 0; shift -= 5 {
				diffs = append(diffs, signExtend(word>>uint(shift), 5))
			}
		case 2: // seven 4-bit differences, top two bits of the payload unused
			for shift := 24; shift >= 0; shift -= 4 {
				diffs = append(diffs, signExtend(word>>uint(shift), 4))
			}
		default:
			return diffs, fmt.Errorf("%w: nibble 3 with dnib 3", errs.ErrSteimCorrupt)
		}
	}

	return diffs, nil
}

// signExtend interprets the low bits of v as a signed two's-complement
// integer of the given width.
func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits

	return int32(v<<shift) >> shift
}

// integrateDiffs reconstructs samples from first differences, anchored at
// x0 and verified against xn. The first difference references the previous
// record and is discarded.
func integrateDiffs(diffs []int32, x0, xn int32, sampleCount int) ([]int32, error) {
	samples := make([]int32, sampleCount)
	samples[0] = x0
	for i := 1; i < sampleCount; i++ {
		samples[i] = samples[i-1] + diffs[i]
	}

	if last := samples[sampleCount-1]; last != xn {
		return nil, fmt.Errorf("%w: reverse integration constant mismatch, got %d want %d",
			errs.ErrSteimCorrupt, last, xn)
	}

	return samples, nil
}
