// Package nstime implements the epoch-nanosecond time representation used
// throughout the MiniSEED format, with conversions to calendar time and the
// display formats seismic tooling expects.
package nstime

import (
	"fmt"
	"time"

	"github.com/arloliu/mseed/format"
)

// Time is a timestamp counted in nanoseconds from the Unix epoch, the
// format's internal time representation. The zero value is the epoch itself.
type Time int64

// FromTime converts a standard library time to epoch nanoseconds.
func FromTime(t time.Time) Time {
	return Time(t.UnixNano())
}

// Date builds a Time from SEED calendar components: year, ordinal day of year
// (1-366), and time of day. Components outside their natural range are
// normalized the way time.Date normalizes, so day 366 of a non-leap year
// rolls into the next year.
func Date(year, yday, hour, min, sec, nsec int) Time {
	return FromTime(time.Date(year, time.January, yday, hour, min, sec, nsec, time.UTC))
}

// AsTime converts to a standard library time in UTC.
func (t Time) AsTime() time.Time {
	return time.Unix(0, int64(t)).UTC()
}

// Calendar decomposes the timestamp into SEED calendar components:
// year, ordinal day of year (1-366), hour, minute, second, and nanosecond.
func (t Time) Calendar() (year, yday, hour, min, sec, nsec int) {
	st := t.AsTime()
	year = st.Year()
	yday = st.YearDay()
	hour, min, sec = st.Clock()
	nsec = st.Nanosecond()

	return year, yday, hour, min, sec, nsec
}

// Add shifts the timestamp by a duration.
func (t Time) Add(d time.Duration) Time {
	return t + Time(d)
}

// Format renders the timestamp in the requested style. When subseconds is
// true the fractional part is shown with microsecond precision, the
// convention of SEED display tooling; nanosecond formats ignore the flag.
func (t Time) Format(f format.TimeFormat, subseconds bool) string {
	switch f {
	case format.TimeFormatSEEDOrdinal:
		year, yday, hour, min, sec, nsec := t.Calendar()
		if subseconds {
			return fmt.Sprintf("%04d,%03d,%02d:%02d:%02d.%06d", year, yday, hour, min, sec, nsec/1000)
		}

		return fmt.Sprintf("%04d,%03d,%02d:%02d:%02d", year, yday, hour, min, sec)

	case format.TimeFormatISOMonthDay:
		st := t.AsTime()
		if subseconds {
			return st.Format("2006-01-02T15:04:05.000000Z")
		}

		return st.Format("2006-01-02T15:04:05Z")

	case format.TimeFormatUnixEpoch:
		sec := int64(t) / int64(time.Second)
		nsec := int64(t) % int64(time.Second)
		if nsec < 0 {
			sec--
			nsec += int64(time.Second)
		}
		if subseconds {
			return fmt.Sprintf("%d.%06d", sec, nsec/1000)
		}

		return fmt.Sprintf("%d", sec)

	case format.TimeFormatNanoEpoch:
		return fmt.Sprintf("%d", int64(t))

	default:
		return t.Format(format.TimeFormatSEEDOrdinal, subseconds)
	}
}

// String renders the SEED ordinal-day form with subseconds, e.g.
// 2010,058,06:50:00.069539.
func (t Time) String() string {
	return t.Format(format.TimeFormatSEEDOrdinal, true)
}
