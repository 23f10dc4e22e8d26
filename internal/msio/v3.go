package msio

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/arloliu/mseed/errs"
	"github.com/arloliu/mseed/format"
	"github.com/arloliu/mseed/nstime"
)

// FDSN miniSEED 3.0 fixed header, always little-endian:
//
//	offset size field
//	0      2    "MS"
//	2      1    format version (3)
//	3      1    flag bits
//	4      4    nanosecond of second
//	8      2    year
//	10     2    day of year
//	12     1    hour
//	13     1    minute
//	14     1    second
//	15     1    data payload encoding
//	16     8    sample rate (Hz) or period (negated seconds)
//	24     4    number of samples
//	28     4    CRC-32C of the whole record
//	32     1    publication version
//	33     1    length of source identifier
//	34     2    length of extra headers
//	36     4    length of data payload
const v3HeaderLen = 40

// maxRecordLen bounds the total record size before the body is allocated.
// The v2 blockette-1000 length exponent tops out at 2^26; v3 headers get the
// same ceiling so a single malformed length field cannot demand a
// multi-gigabyte buffer.
const maxRecordLen = 1 << 26

// crcTable is the Castagnoli polynomial table used by miniSEED 3 CRCs.
var crcTable = crc32.MakeTable(crc32.Castagnoli)

// readV3 decodes one miniSEED 3 record from br into rec. buf carries the
// already-consumed record bytes and is grown in place; it is retained and
// reused by the caller. validateCRC enables the whole-record CRC-32C check;
// unpack enables payload decoding.
func readV3(br io.Reader, rec *Record, buf []byte, unpack, validateCRC bool) ([]byte, error) {
	buf = buf[:0]
	buf = append(buf, make([]byte, v3HeaderLen)...)
	if _, err := io.ReadFull(br, buf); err != nil {
		return buf, fmt.Errorf("%w: short v3 header: %v", errs.ErrTruncatedRecord, err)
	}

	if buf[0] != 'M' || buf[1] != 'S' || buf[2] != 3 {
		return buf, fmt.Errorf("%w: bad v3 record header", errs.ErrInvalidRecord)
	}

	le := binary.LittleEndian
	nsec := le.Uint32(buf[4:])
	year := int(le.Uint16(buf[8:]))
	yday := int(le.Uint16(buf[10:]))
	hour, min, sec := int(buf[12]), int(buf[13]), int(buf[14])
	encoding := format.Encoding(buf[15])
	rateRaw := math.Float64frombits(le.Uint64(buf[16:]))
	sampleCount := int64(le.Uint32(buf[24:]))
	storedCRC := le.Uint32(buf[28:])
	pubVersion := buf[32]
	sidLen := int(buf[33])
	extraLen := int(le.Uint16(buf[34:]))
	dataLen := int(le.Uint32(buf[36:]))

	if year < 1800 || year > 2500 || yday < 1 || yday > 366 || nsec > 999_999_999 {
		return buf, fmt.Errorf("%w: v3 start time out of range", errs.ErrInvalidRecord)
	}

	recLen := v3HeaderLen + sidLen + extraLen + dataLen
	if recLen > maxRecordLen {
		return buf, fmt.Errorf("%w: record length %d exceeds maximum %d", errs.ErrInvalidRecord, recLen, maxRecordLen)
	}

	rest := make([]byte, sidLen+extraLen+dataLen)
	if _, err := io.ReadFull(br, rest); err != nil {
		return buf, fmt.Errorf("%w: short v3 record body: %v", errs.ErrTruncatedRecord, err)
	}
	buf = append(buf, rest...)

	if validateCRC {
		got := crcRecord(buf)
		if got != storedCRC {
			return buf, fmt.Errorf("%w: computed %08x, stored %08x", errs.ErrCRCMismatch, got, storedCRC)
		}
	}

	rate := rateRaw
	if rate < 0 {
		rate = -1.0 / rate // negated values store the sample period in seconds
	}

	rec.SID = string(buf[v3HeaderLen : v3HeaderLen+sidLen])
	rec.FormatVersion = 3
	rec.Flags = buf[3]
	rec.StartTime = nstime.Date(year, yday, hour, min, sec, int(nsec))
	rec.SampleRate = rate
	rec.Encoding = encoding
	rec.PubVersion = pubVersion
	rec.SampleCount = sampleCount
	rec.CRC = storedCRC
	rec.RecordLength = int32(recLen)
	rec.ExtraHeaders = append(rec.ExtraHeaders[:0], buf[v3HeaderLen+sidLen:v3HeaderLen+sidLen+extraLen]...)

	if unpack && sampleCount > 0 {
		payload := buf[v3HeaderLen+sidLen+extraLen:]
		// v3 fixed-width payloads are little-endian; Steim frames stay
		// big-endian per the FDSN specification.
		order := binary.ByteOrder(binary.LittleEndian)
		if encoding == format.EncodingSteim1 || encoding == format.EncodingSteim2 {
			order = binary.BigEndian
		}
		data, st, n, err := unpackSamples(encoding, payload, order, int(sampleCount))
		if err != nil {
			return buf, err
		}
		rec.Data = data
		rec.SampleType = st
		rec.NumSamples = int64(n)
	}

	return buf, nil
}

// crcRecord computes the CRC-32C of a complete v3 record with the CRC field
// treated as zero, the convention the stored value is computed under.
func crcRecord(record []byte) uint32 {
	crc := crc32.Update(0, crcTable, record[:28])
	crc = crc32.Update(crc, crcTable, []byte{0, 0, 0, 0})

	return crc32.Update(crc, crcTable, record[32:])
}
