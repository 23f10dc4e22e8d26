package mseed

import (
	"fmt"
	"iter"

	"github.com/arloliu/mseed/internal/msio"
	"github.com/arloliu/mseed/nstime"
	"github.com/arloliu/mseed/sid"
)

// Channel is one sensor channel within an Archive: a source identifier with
// its time-ordered segments. Channels are owned by their archive and have
// no independent lifetime.
type Channel struct {
	entry *msio.TraceEntry
	segs  []*Segment
}

func newChannel(entry *msio.TraceEntry) *Channel {
	segs := make([]*Segment, len(entry.Segs))
	for i, s := range entry.Segs {
		segs[i] = &Segment{seg: s}
	}

	return &Channel{entry: entry, segs: segs}
}

// SourceID returns the channel's compact source identifier.
func (c *Channel) SourceID() string {
	return c.entry.SID
}

// Identity parses the source identifier into network, station, location,
// and channel. Parsing is idempotent.
func (c *Channel) Identity() (sid.Identity, error) {
	return sid.Parse(c.entry.SID)
}

// StartTime returns the earliest sample time across all segments.
func (c *Channel) StartTime() nstime.Time {
	return c.entry.Earliest
}

// EndTime returns the latest sample time across all segments.
func (c *Channel) EndTime() nstime.Time {
	return c.entry.Latest
}

// PubVersion returns the channel's publication version: the highest seen
// across merged records, or the exact version when the archive was loaded
// with WithSplitVersion.
func (c *Channel) PubVersion() uint8 {
	return c.entry.PubVersion
}

// NumSegments returns the number of contiguous segments.
func (c *Channel) NumSegments() int {
	return len(c.segs)
}

// Segments returns a lazy, finite, restartable sequence of the channel's
// segments in ascending time order.
func (c *Channel) Segments() iter.Seq[*Segment] {
	return func(yield func(*Segment) bool) {
		for _, seg := range c.segs {
			if !yield(seg) {
				return
			}
		}
	}
}

// String renders a one-line channel summary.
func (c *Channel) String() string {
	return fmt.Sprintf("%s, %d, %d segments, %s - %s",
		c.entry.SID, c.entry.PubVersion, len(c.segs), c.entry.Earliest, c.entry.Latest)
}
