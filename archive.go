package mseed

import (
	"fmt"
	"iter"

	"github.com/arloliu/mseed/errs"
	"github.com/arloliu/mseed/internal/hash"
	"github.com/arloliu/mseed/internal/msio"
	"github.com/arloliu/mseed/internal/options"
)

// Archive is the whole-file view of a MiniSEED archive: one bulk parse
// merges all records into per-channel, time-ordered segments. An Archive is
// built once by Load and is not incrementally updatable; channels and
// segments live and die with their owning archive.
//
// Every accessor panics before a successful Load — using an unloaded
// archive is a caller bug, not a runtime condition.
//
// Archive is not safe for concurrent mutation; after Load completes the
// accessors are read-only.
type Archive struct {
	path     string
	cfg      config
	loaded   bool
	channels []*Channel
	index    map[uint64][]*Channel
}

// NewArchive prepares an archive for path without reading anything. Call
// Load before using any accessor. Defaults match NewReader: unpacking
// enabled, CRC validation disabled, verbosity off.
func NewArchive(path string, opts ...Option) (*Archive, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &Archive{path: path, cfg: cfg}, nil
}

// ReadArchive opens, loads, and returns the archive for path in one call.
func ReadArchive(path string, opts ...Option) (*Archive, error) {
	a, err := NewArchive(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := a.Load(); err != nil {
		return nil, err
	}

	return a, nil
}

// Load performs the one bulk parse, merging records that share a source
// identifier, a compatible sample rate, and time-contiguity into segments.
// A decode failure leaves the archive unusable and returns the error; Load
// may be retried.
func (a *Archive) Load() error {
	tl, err := msio.ReadTraceList(a.path, msio.TraceOptions{
		Unpack:        a.cfg.unpack,
		ValidateCRC:   a.cfg.validateCRC,
		Verbose:       a.cfg.verbose,
		TimeTolerance: a.cfg.tolerance,
		SplitVersion:  a.cfg.splitVersion,
		Logger:        a.cfg.logger,
	})
	if err != nil {
		return err
	}

	channels := make([]*Channel, 0, len(tl.Entries))
	index := make(map[uint64][]*Channel, len(tl.Entries))
	for _, entry := range tl.Entries {
		ch := newChannel(entry)
		channels = append(channels, ch)
		key := hash.ID(entry.SID)
		index[key] = append(index[key], ch)
	}

	a.channels = channels
	a.index = index
	a.loaded = true

	return nil
}

// Loaded reports whether a Load has completed successfully.
func (a *Archive) Loaded() bool {
	return a.loaded
}

// Path returns the file path the archive was created for.
func (a *Archive) Path() string {
	return a.path
}

func (a *Archive) mustLoaded() {
	if !a.loaded {
		panic(fmt.Errorf("mseed: %w", errs.ErrArchiveNotLoaded))
	}
}

// NumTraces returns the number of distinct channels in the archive.
func (a *Archive) NumTraces() int {
	a.mustLoaded()
	return len(a.channels)
}

// Channels returns a lazy, finite, restartable sequence of the archive's
// channels in first-discovery order. Each call yields a fresh traversal
// from the start.
func (a *Archive) Channels() iter.Seq[*Channel] {
	a.mustLoaded()

	return func(yield func(*Channel) bool) {
		for _, ch := range a.channels {
			if !yield(ch) {
				return
			}
		}
	}
}

// Channel looks up a channel by its compact source identifier. When the
// archive was loaded with WithSplitVersion and several versions exist, the
// one with the highest publication version is returned.
func (a *Archive) Channel(sourceID string) (*Channel, bool) {
	a.mustLoaded()

	var best *Channel
	for _, ch := range a.index[hash.ID(sourceID)] {
		if ch.entry.SID != sourceID {
			continue // hash collision
		}
		if best == nil || ch.entry.PubVersion > best.entry.PubVersion {
			best = ch
		}
	}

	return best, best != nil
}

// ChannelAt returns the channel at position i in discovery order.
func (a *Archive) ChannelAt(i int) *Channel {
	a.mustLoaded()
	return a.channels[i]
}
