package mseed

import (
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/mseed/internal/options"
)

// Option configures a Reader or an Archive at construction time.
type Option = options.Option[*config]

type config struct {
	unpack       bool
	validateCRC  bool
	verbose      bool
	logger       *zap.Logger
	tolerance    time.Duration
	splitVersion bool
}

func defaultConfig() config {
	return config{
		unpack: true,
		logger: zap.NewNop(),
	}
}

// WithUnpackData controls whether sample payloads are decoded (default
// true). With unpacking disabled only record and segment metadata is
// available; typed sample accessors yield empty results.
func WithUnpackData(unpack bool) Option {
	return options.NoError(func(c *config) {
		c.unpack = unpack
	})
}

// WithValidateCRC controls whether miniSEED 3 record checksums are verified
// while reading (default false). A mismatch fails the read with
// errs.ErrCRCMismatch.
func WithValidateCRC(validate bool) Option {
	return options.NoError(func(c *config) {
		c.validateCRC = validate
	})
}

// WithVerbose enables per-record debug logging through the configured
// logger (default false).
func WithVerbose(verbose bool) Option {
	return options.NoError(func(c *config) {
		c.verbose = verbose
	})
}

// WithLogger sets the logger used for verbose diagnostics. The default is
// a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithTimeTolerance overrides the time gap within which a record is merged
// onto an existing segment during Archive.Load. The default (zero) is half
// a sample period. Only Archive uses this option.
func WithTimeTolerance(tolerance time.Duration) Option {
	return options.NoError(func(c *config) {
		c.tolerance = tolerance
	})
}

// WithSplitVersion keeps records with different publication versions in
// separate channels during Archive.Load (default false: versions merge and
// the channel reports the highest version seen). Only Archive uses this
// option.
func WithSplitVersion(split bool) Option {
	return options.NoError(func(c *config) {
		c.splitVersion = split
	})
}
