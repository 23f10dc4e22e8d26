package msio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/mseed/format"
)

// v3RecordSpec describes one synthetic miniSEED 3 record for tests.
type v3RecordSpec struct {
	sid        string
	year       int
	yday       int
	hour       int
	min        int
	sec        int
	nsec       uint32
	rate       float64
	encoding   format.Encoding
	pubVersion uint8
	extra      string
	samples    []int32
	payload    []byte // overrides samples when non-nil
	count      int    // overrides len(samples) when > 0
	breakCRC   bool
}

// buildV3Record assembles a valid miniSEED 3 record, computing the CRC the
// same way the decoder verifies it.
func buildV3Record(spec v3RecordSpec) []byte {
	payload := spec.payload
	if payload == nil {
		payload = make([]byte, 0, len(spec.samples)*4)
		for _, v := range spec.samples {
			payload = binary.LittleEndian.AppendUint32(payload, uint32(v))
		}
	}
	count := spec.count
	if count == 0 {
		count = len(spec.samples)
	}

	le := binary.LittleEndian
	rec := make([]byte, 0, 40+len(spec.sid)+len(spec.extra)+len(payload))
	rec = append(rec, 'M', 'S', 3, 0)
	rec = le.AppendUint32(rec, spec.nsec)
	rec = le.AppendUint16(rec, uint16(spec.year))
	rec = le.AppendUint16(rec, uint16(spec.yday))
	rec = append(rec, byte(spec.hour), byte(spec.min), byte(spec.sec), byte(spec.encoding))
	rec = le.AppendUint64(rec, math.Float64bits(spec.rate))
	rec = le.AppendUint32(rec, uint32(count))
	rec = le.AppendUint32(rec, 0) // CRC placeholder
	rec = append(rec, spec.pubVersion, byte(len(spec.sid)))
	rec = le.AppendUint16(rec, uint16(len(spec.extra)))
	rec = le.AppendUint32(rec, uint32(len(payload)))
	rec = append(rec, spec.sid...)
	rec = append(rec, spec.extra...)
	rec = append(rec, payload...)

	crc := crcRecord(rec)
	if spec.breakCRC {
		crc ^= 0xdeadbeef
	}
	le.PutUint32(rec[28:], crc)

	return rec
}

// byteOrder pairs the read and append views of a byte order, the way the
// binary package splits them.
type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// v2RecordSpec describes one synthetic SEED 2.4 record for tests.
type v2RecordSpec struct {
	network    string
	station    string
	location   string
	channel    string
	quality    byte
	year       int
	yday       int
	hour       int
	min        int
	sec        int
	fract      uint16 // units of 0.0001 s
	factor     int16
	multiplier int16
	encoding   format.Encoding
	wordOrder  uint8 // payload and header order: 1 big-endian, 0 little-endian
	reclenExp  int
	samples    []int32
	payload    []byte // overrides samples when non-nil
	count      int
	noB1000    bool
	microsecs  int8
}

// buildV2Record assembles a 2^reclenExp-byte SEED 2.4 record with a
// blockette 1000 (and 1001 when a microsecond offset is set).
func buildV2Record(spec v2RecordSpec) []byte {
	order := byteOrder(binary.BigEndian)
	if spec.wordOrder == 0 {
		order = binary.LittleEndian
	}

	recLen := 1 << spec.reclenExp
	rec := make([]byte, recLen)
	copy(rec[0:6], "000001")
	quality := spec.quality
	if quality == 0 {
		quality = 'D'
	}
	rec[6] = quality
	rec[7] = ' '
	copy(rec[8:13], pad(spec.station, 5))
	copy(rec[13:15], pad(spec.location, 2))
	copy(rec[15:18], pad(spec.channel, 3))
	copy(rec[18:20], pad(spec.network, 2))

	order.PutUint16(rec[20:], uint16(spec.year))
	order.PutUint16(rec[22:], uint16(spec.yday))
	rec[24], rec[25], rec[26] = byte(spec.hour), byte(spec.min), byte(spec.sec)
	order.PutUint16(rec[28:], spec.fract)

	count := spec.count
	if count == 0 {
		count = len(spec.samples)
	}
	order.PutUint16(rec[30:], uint16(count))
	order.PutUint16(rec[32:], uint16(spec.factor))
	order.PutUint16(rec[34:], uint16(spec.multiplier))

	numBlockettes := 0
	offset := 48
	if !spec.noB1000 {
		order.PutUint16(rec[offset:], 1000)
		nextOff := 0
		if spec.microsecs != 0 {
			nextOff = offset + 8
		}
		order.PutUint16(rec[offset+2:], uint16(nextOff))
		rec[offset+4] = byte(spec.encoding)
		rec[offset+5] = spec.wordOrder
		rec[offset+6] = byte(spec.reclenExp)
		numBlockettes++
		offset += 8

		if spec.microsecs != 0 {
			order.PutUint16(rec[offset:], 1001)
			order.PutUint16(rec[offset+2:], 0)
			rec[offset+4] = 100 // timing quality
			rec[offset+5] = byte(spec.microsecs)
			numBlockettes++
			offset += 8
		}
	}
	rec[39] = byte(numBlockettes)

	dataOffset := 64
	payload := spec.payload
	if payload == nil {
		payload = make([]byte, 0, len(spec.samples)*4)
		for _, v := range spec.samples {
			payload = order.AppendUint32(payload, uint32(v))
		}
	}
	if len(payload) > 0 {
		order.PutUint16(rec[44:], uint16(dataOffset))
		copy(rec[dataOffset:], payload)
	}
	if numBlockettes > 0 {
		order.PutUint16(rec[46:], 48)
	}

	return rec
}

func pad(s string, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	copy(b, s)

	return b
}

// writeTestFile concatenates records into a file under t.TempDir.
func writeTestFile(t *testing.T, records ...[]byte) string {
	t.Helper()

	var data []byte
	for _, rec := range records {
		data = append(data, rec...)
	}
	path := filepath.Join(t.TempDir(), "test.seed")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}
