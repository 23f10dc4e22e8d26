package mseed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/mseed/errs"
	"github.com/arloliu/mseed/format"
	"github.com/arloliu/mseed/nstime"
)

func TestArchive_MultipleSeed(t *testing.T) {
	archive, err := ReadArchive(multipleSeed)
	require.NoError(t, err)

	require.True(t, archive.Loaded())
	require.Equal(t, 1, archive.NumTraces())

	ch := archive.ChannelAt(0)
	require.Equal(t, multipleSID, ch.SourceID())
	require.Equal(t, uint8(1), ch.PubVersion())
	require.Equal(t, 1, ch.NumSegments())

	var seg *Segment
	for s := range ch.Segments() {
		seg = s
	}
	require.NotNil(t, seg)
	require.True(t, seg.DataUnpacked())
	require.Equal(t, format.SampleInt32, seg.SampleType())
	require.Equal(t, int64(multipleSamples), seg.SampleCount())
	require.Equal(t, int64(multipleSamples), seg.NumSamples())
	require.Equal(t, int64(multipleSamples*4), seg.DataSize())

	samples, err := seg.Int32Samples()
	require.NoError(t, err)
	require.Len(t, samples, multipleSamples)
	require.Equal(t, int32(-47237), samples[0])
	require.Equal(t, int32(-47304), samples[1])
}

func TestArchive_ChannelTimes(t *testing.T) {
	archive, err := ReadArchive(multipleSeed)
	require.NoError(t, err)

	ch := archive.ChannelAt(0)
	require.Equal(t, nstime.Date(2010, 58, 6, 50, 0, 0), ch.StartTime())
	// 287999 samples after the first, at 100 Hz: 2879.99 s later.
	require.Equal(t, nstime.Date(2010, 58, 7, 37, 59, 990_000_000), ch.EndTime())

	seg := ch.segs[0]
	require.Equal(t, ch.StartTime(), seg.StartTime())
	require.Equal(t, ch.EndTime(), seg.EndTime())
}

func TestArchive_AccessorsBeforeLoadPanic(t *testing.T) {
	archive, err := NewArchive(multipleSeed)
	require.NoError(t, err)
	require.False(t, archive.Loaded())

	require.PanicsWithError(t, "mseed: "+errs.ErrArchiveNotLoaded.Error(), func() { archive.NumTraces() })
	require.Panics(t, func() { archive.Channels() })
	require.Panics(t, func() { archive.Channel(multipleSID) })
	require.Panics(t, func() { archive.ChannelAt(0) })
}

func TestArchive_LoadFailureLeavesUnusable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.seed")
	require.NoError(t, os.WriteFile(path, []byte("not miniSEED at all........."), 0o644))

	archive, err := NewArchive(path)
	require.NoError(t, err)
	require.Error(t, archive.Load())
	require.False(t, archive.Loaded())
	require.Panics(t, func() { archive.NumTraces() })
}

func TestArchive_ChannelsRestartable(t *testing.T) {
	archive, err := ReadArchive(multipleSeed)
	require.NoError(t, err)

	first := 0
	for range archive.Channels() {
		first++
	}
	second := 0
	for range archive.Channels() {
		second++
	}
	require.Equal(t, first, second)
	require.Equal(t, 1, first)
}

func TestArchive_ChannelLookup(t *testing.T) {
	archive, err := ReadArchive(multipleSeed)
	require.NoError(t, err)

	ch, ok := archive.Channel(multipleSID)
	require.True(t, ok)
	require.Equal(t, multipleSID, ch.SourceID())

	_, ok = archive.Channel("FDSN:XX_NOPE__B_H_Z")
	require.False(t, ok)
}

func TestArchive_ChannelIdentityIdempotent(t *testing.T) {
	archive, err := ReadArchive(multipleSeed)
	require.NoError(t, err)

	ch := archive.ChannelAt(0)
	first, err := ch.Identity()
	require.NoError(t, err)
	second, err := ch.Identity()
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, "XX", first.Network)
	require.Equal(t, "TEST", first.Station)
	require.Equal(t, "", first.Location)
	require.Equal(t, "BHZ", first.Channel)
}

func TestArchive_UnpackDisabled(t *testing.T) {
	archive, err := ReadArchive(multipleSeed, WithUnpackData(false))
	require.NoError(t, err)

	ch := archive.ChannelAt(0)
	for seg := range ch.Segments() {
		require.False(t, seg.DataUnpacked())
		require.Equal(t, format.SampleUnknown, seg.SampleType())

		i32, err := seg.Int32Samples()
		require.NoError(t, err)
		require.Empty(t, i32)

		f32, err := seg.Float32Samples()
		require.NoError(t, err)
		require.Empty(t, f32)

		f64, err := seg.Float64Samples()
		require.NoError(t, err)
		require.Empty(t, f64)
	}
}

func TestArchive_NativeConversionIsNoOp(t *testing.T) {
	archive, err := ReadArchive(multipleSeed)
	require.NoError(t, err)

	seg := archive.ChannelAt(0).segs[0]
	before := append([]byte(nil), seg.seg.Data...)

	samples, err := seg.Int32Samples()
	require.NoError(t, err)
	require.Len(t, samples, multipleSamples)

	require.Equal(t, before, seg.seg.Data)
}

func TestArchive_SegmentTypeConversion(t *testing.T) {
	archive, err := ReadArchive(multipleSeed)
	require.NoError(t, err)

	seg := archive.ChannelAt(0).segs[0]

	// All sample magnitudes fit well inside float32's exact integer range,
	// so the lossless conversions succeed in both directions.
	f64, err := seg.Float64Samples()
	require.NoError(t, err)
	require.Equal(t, float64(-47237), f64[0])
	require.Equal(t, float64(-47304), f64[1])

	f32, err := seg.Float32Samples()
	require.NoError(t, err)
	require.Equal(t, float32(-47237), f32[0])

	i32, err := seg.Int32Samples()
	require.NoError(t, err)
	require.Equal(t, int32(-47237), i32[0])
	require.Equal(t, int32(-47304), i32[1])
}

func TestArchive_ReturnedSamplesAreOwnedCopies(t *testing.T) {
	archive, err := ReadArchive(multipleSeed)
	require.NoError(t, err)

	seg := archive.ChannelAt(0).segs[0]
	samples, err := seg.Int32Samples()
	require.NoError(t, err)

	samples[0] = 12345
	again, err := seg.Int32Samples()
	require.NoError(t, err)
	require.Equal(t, int32(-47237), again[0])
}

func TestArchive_TimeToleranceOption(t *testing.T) {
	archive, err := ReadArchive(multipleSeed, WithTimeTolerance(time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, archive.NumTraces())
}

func TestArchive_Path(t *testing.T) {
	archive, err := NewArchive(multipleSeed)
	require.NoError(t, err)
	require.Equal(t, multipleSeed, archive.Path())
}
